package util

func Int64Ptr(value int64) *int64 {
	return &value
}
