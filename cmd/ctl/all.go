package ctl

import (
	_ "kapsel/cmd/ctl/cache"
	_ "kapsel/cmd/ctl/manifest"
	_ "kapsel/cmd/ctl/root"
)
