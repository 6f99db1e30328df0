package fixtures

import (
	_ "embed"
)

//go:embed config/kernel-splat.yaml.template
var ConfigTemplate []byte
