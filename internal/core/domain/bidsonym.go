package domain

const (
	// GeneratorImage is the pinned neurodocker release that renders recipes.
	GeneratorImage = "repronim/neurodocker:0.9.5"

	// ImageTag is the local name given to images built from the recipe.
	ImageTag = "bidsonym"

	// EnvName is the conda environment the application runs in.
	EnvName = "bidsonym"

	// ProjectRoot is where the local project tree lands inside the image.
	ProjectRoot = "/home/bm"
)

// BIDSonym returns the recipe for the BIDSonym de-identification image.
// The result depends on nothing but the constants below.
func BIDSonym() Recipe {
	return Recipe{
		Name:      "bidsonym",
		Generator: GeneratorImage,
		Format:    "docker",
		Steps: []Step{
			BaseImage{Image: "neurodebian:bullseye-non-free", PkgManager: "apt"},
			PackageInstall{Packages: []string{
				"git", "num-utils", "gcc", "g++", "curl", "build-essential",
				"nano", "nodejs", "npm", "tcsh", "bc", "libgomp1",
			}},
			GitIdentity{Name: "BIDSonym", Email: "bidsonym@example.com"},
			Toolkit{Name: "fsl", Version: "6.0.5.1"},
			Run{Command: "git clone https://github.com/mih/mridefacer /mridefacer"},
			Env{Vars: []EnvVar{
				{Name: "MRIDEFACER_DATA_DIR", Value: "/mridefacer/data"},
				{Name: "FSLOUTPUTTYPE", Value: "NIFTI_GZ"},
				{Name: "FSLMULTIFILEQUIT", Value: "TRUE"},
				{Name: "IS_DOCKER", Value: "1"},
			}},
			CondaEnv{
				Name:          EnvName,
				Python:        "3.10",
				CondaPackages: []string{"numpy", "nipype", "nibabel", "pandas", "matplotlib"},
				PipPackages: []string{
					"pybids", "nilearn", "scikit-image", "pydeface", "quickshear",
					"deepdefacer", "nobrainer==1.2.1", "tensorflow==2.15.1",
					"gif_your_nifti", "dvc[http]==3.51.2",
				},
			},
			ModelData{
				Repository: "https://github.com/neuronets/trained-models",
				Revision:   "v1.0.0",
				Dest:       "/opt/nobrainer/models/trained-models",
				Env:        EnvName,
				Targets: []string{
					"neuronets/brainy/0.1.0/weights/brain-extraction-unet-128iso-model.h5",
				},
			},
			Copy{Src: ".", Dest: ProjectRoot},
			Executable{Path: ProjectRoot + "/bidsonym/fs_data/mri_deface"},
			EditableInstall{Env: EnvName, Path: ProjectRoot},
			Launcher{Path: "/neurodocker/startup.sh", Env: EnvName, Command: "bidsonym"},
		},
	}
}
