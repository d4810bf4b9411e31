// Package config loads amo settings from a YAML or TOML file, an optional
// .env file and AMO_* environment variables, in that order, and validates
// the result.
//
// Environment overrides:
//
//	AMO_SERVER_ADDR, AMO_SERVER_READ_TIMEOUT, AMO_SERVER_WRITE_TIMEOUT
//	AMO_SIM_TRIALS, AMO_SIM_SIZE, AMO_SIM_MAX_WEIGHT, AMO_SIM_WORKERS,
//	AMO_SIM_SEED, AMO_SIM_SOURCE, AMO_SIM_TARGET
//	AMO_LOG_LEVEL, AMO_LOG_FORMAT
//	AMO_MERGE_AUTOPAD
package config
