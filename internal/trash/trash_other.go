//go:build !linux && !darwin

package trash

func getPath() string { return "" }

func isAvailable() bool { return false }

func moveToTrash(string) error { return ErrUnavailable }
