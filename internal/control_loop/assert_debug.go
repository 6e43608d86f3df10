//go:build debug

package control_loop

import "fmt"

func assertPositiveSaturation(consts PidConsts) {
	if consts.Saturation <= 0 {
		panic(fmt.Sprintf("pid saturation must be positive, got %v", consts.Saturation))
	}
}
