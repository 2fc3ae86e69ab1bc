package resources

import (
	"os"

	"github.com/edsrzf/mmap-go"
)

// readMmap maps a file read-only. A zero length file cannot be mapped
// and comes back as an empty slice instead.
func readMmap(file *os.File) (*[]byte, error) {
	if info, statErr := file.Stat(); statErr == nil && info.Size() == 0 {
		empty := make([]byte, 0)
		return &empty, nil
	}
	fileMmap, mmapErr := mmap.Map(file, mmap.RDONLY, 0)
	mmapBytes := (*[]byte)(&fileMmap)
	return mmapBytes, mmapErr
}
