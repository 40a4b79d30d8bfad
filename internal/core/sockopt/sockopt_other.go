//go:build !linux

package sockopt

func setCongestion(uintptr, string) error {
	return ErrUnsupported
}

func getCongestion(uintptr) (string, error) {
	return "", ErrUnsupported
}

func netnsCookie() (uint64, error) {
	return 0, ErrUnsupported
}
