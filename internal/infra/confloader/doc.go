// Package confloader captures the boot environment.
//
// The environment is read exactly once, at the process boundary, into an
// immutable Env snapshot. Deeper packages receive the snapshot and never
// call os.Getenv themselves. koanf merges the layers:
//
//  1. Process environment variables (highest)
//  2. Dotenv file (--env-file)
//  3. YAML defaults file (--config)
//
// Keys keep their environment spelling (upper case, underscores). YAML keys
// are upper-cased so that `port: 8080` in a defaults file and PORT=8080 in
// the environment address the same setting.
package confloader
