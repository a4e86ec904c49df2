package config

import "os"

const badFileName = "_bad_file_name_"

// noColor honors https://no-color.org convention.
func noColor() bool {
	_, set := os.LookupEnv("NO_COLOR")
	return set
}
