package util

import "fmt"

func BytesToSize(sz int64) string {
	switch {
	case sz >= 1024*1024*1024:
		return fmt.Sprintf("%0.2f GB", float64(sz)/(1024.0*1024.0*1024.0))
	case sz >= 1024*1024:
		return fmt.Sprintf("%0.2f MB", float64(sz)/(1024.0*1024.0))
	case sz >= 1024:
		return fmt.Sprintf("%0.2f kB", float64(sz)/1024.0)
	default:
		return fmt.Sprintf("%d bytes", sz)
	}
}
