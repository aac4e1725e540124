//go:build !unix

package peimage

func mapFile(path string, _ bool) ([]byte, func() error, error) {
	return readFile(path)
}
