package neurodocker

import (
	"fmt"
	"strings"

	"github.com/bidsonym/imagegen/internal/core/domain"
)

// minicondaVersion selects the installer only; the interpreter is pinned by
// the CondaEnv step itself.
const minicondaVersion = "latest"

// Flags renders the recipe steps as neurodocker `generate` flags, in order.
func Flags(recipe domain.Recipe) ([]string, error) {
	var flags []string
	for i, step := range recipe.Steps {
		f, err := stepFlags(step)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		flags = append(flags, f...)
	}
	return flags, nil
}

func stepFlags(step domain.Step) ([]string, error) {
	switch s := step.(type) {
	case domain.BaseImage:
		return []string{"--pkg-manager", s.PkgManager, "--base-image", s.Image}, nil

	case domain.PackageInstall:
		return append([]string{"--install"}, s.Packages...), nil

	case domain.GitIdentity:
		return []string{"--run", fmt.Sprintf("git config --global user.name %s && git config --global user.email %s",
			quote(s.Name), quote(s.Email))}, nil

	case domain.Toolkit:
		return []string{"--" + s.Name, "version=" + s.Version}, nil

	case domain.Run:
		return []string{"--run", s.Command}, nil

	case domain.Env:
		flags := []string{"--env"}
		for _, v := range s.Vars {
			flags = append(flags, v.Name+"="+v.Value)
		}
		return flags, nil

	case domain.CondaEnv:
		conda := append([]string{"python=" + s.Python}, s.CondaPackages...)
		flags := []string{
			"--miniconda",
			"version=" + minicondaVersion,
			"env_name=" + s.Name,
			"env_exists=false",
			"conda_install=" + strings.Join(conda, " "),
		}
		if len(s.PipPackages) > 0 {
			flags = append(flags, "pip_install="+strings.Join(s.PipPackages, " "))
		}
		return flags, nil

	case domain.ModelData:
		targets := make([]string, len(s.Targets))
		for i, t := range s.Targets {
			targets[i] = quote(t)
		}
		cmd := fmt.Sprintf("git clone %s %s && cd %s && git checkout %s && source activate %s && dvc pull %s",
			quote(s.Repository), quote(s.Dest), quote(s.Dest), quote(s.Revision), s.Env, strings.Join(targets, " "))
		return []string{"--run-bash", cmd}, nil

	case domain.Copy:
		return []string{"--copy", s.Src, s.Dest}, nil

	case domain.Executable:
		return []string{"--run", "chmod a+x " + quote(s.Path)}, nil

	case domain.EditableInstall:
		return []string{"--run-bash", fmt.Sprintf("source activate %s && cd %s && pip install -e .", s.Env, quote(s.Path))}, nil

	case domain.Launcher:
		lines := s.Script()
		quoted := make([]string, len(lines))
		for i, l := range lines {
			quoted[i] = quote(l)
		}
		dir := s.Path[:strings.LastIndex(s.Path, "/")+1]
		write := fmt.Sprintf("mkdir -p %s && printf '%%s\\n' %s > %s && chmod +x %s",
			quote(dir), strings.Join(quoted, " "), quote(s.Path), quote(s.Path))
		return []string{"--run", write, "--entrypoint", s.Path}, nil
	}
	return nil, fmt.Errorf("%w: no neurodocker rendering for %s", domain.ErrInvalidStep, step.Kind())
}

// quote wraps s in single quotes for /bin/sh.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
