package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	envFileFlag    = "env-file"
	defaultEnvFile = ".env"
)

// LoadEnvFile parses the command line for --env-file (-e) and loads the named
// dotenv file into the process environment. Variables already set in the
// environment win. A missing default .env is not an error; a missing file
// named explicitly is.
func LoadEnvFile(name string, args []string) (string, error) {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	path := flags.StringP(envFileFlag, "e", defaultEnvFile, "dotenv file to load before reading the environment")
	if err := flags.Parse(args); err != nil {
		return "", fmt.Errorf("failed to parse flags: %w", err)
	}

	if err := godotenv.Load(*path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !flags.Changed(envFileFlag) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load env file %s: %w", *path, err)
	}

	return *path, nil
}
