package resources

import (
	"os"
	"path"
)

// WriteFileAtomic
// Writes data to outputPath through a temporary file in the destination
// directory, creating parent directories as needed. The destination is
// replaced in a single rename once every byte is on disk; on any
// failure the temporary file is removed and the destination is left
// untouched.
func WriteFileAtomic(outputPath string, data []byte) error {
	dir := path.Dir(outputPath)
	if mkdirErr := os.MkdirAll(dir, 0755); mkdirErr != nil {
		return mkdirErr
	}
	tmpFile, tmpErr := os.CreateTemp(dir, path.Base(outputPath)+".*.tmp")
	if tmpErr != nil {
		return tmpErr
	}
	tmpPath := tmpFile.Name()
	_, err := tmpFile.Write(data)
	if err == nil {
		err = tmpFile.Sync()
	}
	if closeErr := tmpFile.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpPath, 0644)
	}
	if err == nil {
		err = os.Rename(tmpPath, outputPath)
	}
	if err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
