package internal

// Name is the binary name.
const Name = "generate-images"

// Version is set at build time with -ldflags "-X .../internal.Version=...".
var Version = "dev"
