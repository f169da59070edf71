// Package utils houses small cross-command helpers: the viper-backed
// ConfigurationLoader, the zap LoggerFactory, and the context accessor that
// carries the resolved configuration file path to subcommands.
package utils
