// Parses flags, loads configuration and wires the adapters for each command.
//
// The binary accepts the following global flags:
//
//	-c, --config    Configuration file (default imagegen.yaml).
//	-q, --quiet     Only log warnings and errors.
//	-v, --verbose   Enable debug logging.
//
// Without a subcommand it runs generate, whose single optional argument
// "local" also builds the image. Logs go to stderr; stdout carries the
// dispatcher messages and the engine's build output.
package cli
