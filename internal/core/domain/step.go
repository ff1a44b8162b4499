package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Step is a single typed instruction of a build recipe.
type Step interface {
	Kind() string
	Validate() error
}

var envName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// BaseImage selects the image every later step builds on.
type BaseImage struct {
	Image      string `json:"image"`
	PkgManager string `json:"pkg_manager"`
}

func (BaseImage) Kind() string { return "base" }

func (s BaseImage) Validate() error {
	if s.Image == "" {
		return fmt.Errorf("%w: base image is empty", ErrInvalidStep)
	}
	if s.PkgManager != "apt" && s.PkgManager != "yum" {
		return fmt.Errorf("%w: unsupported package manager %q", ErrInvalidStep, s.PkgManager)
	}
	return nil
}

// PackageInstall installs OS packages with the base image's package manager.
type PackageInstall struct {
	Packages []string `json:"packages"`
}

func (PackageInstall) Kind() string { return "install" }

func (s PackageInstall) Validate() error {
	if len(s.Packages) == 0 {
		return fmt.Errorf("%w: no packages to install", ErrInvalidStep)
	}
	return nonBlank("package", s.Packages)
}

// GitIdentity configures the global git author inside the image.
type GitIdentity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (GitIdentity) Kind() string { return "git-identity" }

func (s GitIdentity) Validate() error {
	if s.Name == "" || !strings.Contains(s.Email, "@") {
		return fmt.Errorf("%w: git identity needs a name and an email", ErrInvalidStep)
	}
	return nil
}

// Toolkit installs a neuroimaging toolkit the generator knows how to render.
type Toolkit struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func (Toolkit) Kind() string { return "toolkit" }

func (s Toolkit) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: toolkit name is empty", ErrInvalidStep)
	}
	if s.Version == "" || s.Version == "latest" {
		return fmt.Errorf("%w: toolkit %s must pin a version", ErrInvalidStep, s.Name)
	}
	return nil
}

// Run executes a shell command during the build.
type Run struct {
	Command string `json:"command"`
}

func (Run) Kind() string { return "run" }

func (s Run) Validate() error {
	if strings.TrimSpace(s.Command) == "" {
		return fmt.Errorf("%w: run command is empty", ErrInvalidStep)
	}
	return nil
}

// EnvVar is one environment assignment. Order is kept as declared.
type EnvVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Env sets environment variables for the image runtime.
type Env struct {
	Vars []EnvVar `json:"vars"`
}

func (Env) Kind() string { return "env" }

func (s Env) Validate() error {
	if len(s.Vars) == 0 {
		return fmt.Errorf("%w: env step sets nothing", ErrInvalidStep)
	}
	seen := make(map[string]bool, len(s.Vars))
	for _, v := range s.Vars {
		if !envName.MatchString(v.Name) {
			return fmt.Errorf("%w: invalid variable name %q", ErrInvalidStep, v.Name)
		}
		if seen[v.Name] {
			return fmt.Errorf("%w: variable %s set twice", ErrInvalidStep, v.Name)
		}
		seen[v.Name] = true
	}
	return nil
}

// CondaEnv creates an isolated interpreter environment with pinned packages.
type CondaEnv struct {
	Name          string   `json:"name"`
	Python        string   `json:"python"`
	CondaPackages []string `json:"conda_packages"`
	PipPackages   []string `json:"pip_packages"`
}

func (CondaEnv) Kind() string { return "conda-env" }

func (s CondaEnv) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: environment name is empty", ErrInvalidStep)
	}
	if s.Python == "" {
		return fmt.Errorf("%w: environment %s must pin python", ErrInvalidStep, s.Name)
	}
	if err := nonBlank("conda package", s.CondaPackages); err != nil {
		return err
	}
	return nonBlank("pip package", s.PipPackages)
}

// ModelData clones a DVC tracked repository and pulls the listed targets
// from its remote store, using the dvc client installed in Env.
type ModelData struct {
	Repository string   `json:"repository"`
	Revision   string   `json:"revision"`
	Dest       string   `json:"dest"`
	Env        string   `json:"env"`
	Targets    []string `json:"targets"`
}

func (ModelData) Kind() string { return "model-data" }

func (s ModelData) Validate() error {
	if s.Repository == "" || s.Dest == "" {
		return fmt.Errorf("%w: model data needs a repository and a destination", ErrInvalidStep)
	}
	if s.Revision == "" {
		return fmt.Errorf("%w: model data %s must pin a revision", ErrInvalidStep, s.Repository)
	}
	if s.Env == "" {
		return fmt.Errorf("%w: model data %s needs an environment with dvc", ErrInvalidStep, s.Repository)
	}
	if len(s.Targets) == 0 {
		return fmt.Errorf("%w: model data %s has no targets", ErrInvalidStep, s.Repository)
	}
	return nonBlank("model target", s.Targets)
}

// Copy copies part of the build context into the image.
type Copy struct {
	Src  string `json:"src"`
	Dest string `json:"dest"`
}

func (Copy) Kind() string { return "copy" }

func (s Copy) Validate() error {
	if s.Src == "" || !strings.HasPrefix(s.Dest, "/") {
		return fmt.Errorf("%w: copy needs a source and an absolute destination", ErrInvalidStep)
	}
	return nil
}

// Executable sets the executable bit on a file already in the image.
type Executable struct {
	Path string `json:"path"`
}

func (Executable) Kind() string { return "chmod" }

func (s Executable) Validate() error {
	if !strings.HasPrefix(s.Path, "/") {
		return fmt.Errorf("%w: executable path %q is not absolute", ErrInvalidStep, s.Path)
	}
	return nil
}

// EditableInstall installs a source tree in development mode inside Env.
type EditableInstall struct {
	Env  string `json:"env"`
	Path string `json:"path"`
}

func (EditableInstall) Kind() string { return "editable-install" }

func (s EditableInstall) Validate() error {
	if s.Env == "" || !strings.HasPrefix(s.Path, "/") {
		return fmt.Errorf("%w: editable install needs an environment and an absolute path", ErrInvalidStep)
	}
	return nil
}

// Launcher writes a script that activates Env and forwards all arguments to
// Command, then makes it the image entrypoint.
type Launcher struct {
	Path    string `json:"path"`
	Env     string `json:"env"`
	Command string `json:"command"`
}

func (Launcher) Kind() string { return "launcher" }

func (s Launcher) Validate() error {
	if !strings.HasPrefix(s.Path, "/") {
		return fmt.Errorf("%w: launcher path %q is not absolute", ErrInvalidStep, s.Path)
	}
	if s.Env == "" || s.Command == "" {
		return fmt.Errorf("%w: launcher needs an environment and a command", ErrInvalidStep)
	}
	return nil
}

// Script returns the launcher file contents, one line per element.
func (s Launcher) Script() []string {
	return []string{
		"#!/usr/bin/env bash",
		"source activate " + s.Env,
		fmt.Sprintf(`exec %s "$@"`, s.Command),
	}
}

func nonBlank(what string, items []string) error {
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			return fmt.Errorf("%w: blank %s", ErrInvalidStep, what)
		}
	}
	return nil
}
