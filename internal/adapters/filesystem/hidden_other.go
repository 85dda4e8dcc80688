//go:build !windows

package filesystem

import "os"

// Only Windows has a hidden attribute. Elsewhere files are never hidden and
// setting the attribute only checks the file exists.
func isHidden(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		return false, err
	}
	return false, nil
}

func setHidden(path string, _ bool) error {
	_, err := os.Stat(path)
	return err
}
