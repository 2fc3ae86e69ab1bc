package resources

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"path"
	"time"

	"github.com/dustin/go-humanize"
)

// The HuggingFace tokenizer artifacts a conversion needs. Both must be
// present; everything else in a model repository is ignored.
const (
	TOKENIZER_CONFIG_JSON = "tokenizer_config.json"
	TOKENIZER_JSON        = "tokenizer.json"
)

// TokenizerFiles
// Returns the artifact names a conversion reads, in resolve order.
func TokenizerFiles() []string {
	return []string{TOKENIZER_CONFIG_JSON, TOKENIZER_JSON}
}

// WriteCounter counts the number of bytes written to it, and every 10 seconds,
// it prints a message reporting the number of bytes written so far.
type WriteCounter struct {
	Total    uint64
	Last     time.Time
	Reported bool
	Path     string
	Size     uint64
}

func (wc *WriteCounter) Write(p []byte) (int, error) {
	n := len(p)
	wc.Total += uint64(n)
	if time.Now().Sub(wc.Last).Seconds() > 10 {
		wc.Reported = true
		wc.Last = time.Now()
		log.Print(fmt.Sprintf("Downloading %s... %s / %s completed.",
			wc.Path, humanize.Bytes(wc.Total), humanize.Bytes(wc.Size)))
	}
	return n, nil
}

// ResourceEntry is one resolved tokenizer document, held as a mmap of
// its backing file.
type ResourceEntry struct {
	file *os.File
	Data *[]byte
}

type Resources map[string]ResourceEntry

// Cleanup closes the files backing the resolved documents.
func (rsrcs *Resources) Cleanup() {
	for _, rsrc := range *rsrcs {
		if rsrc.file != nil {
			rsrc.file.Close()
		}
	}
}

// AddEntry
// Add a resource to the Resources map, opening it as a mmap.Map.
func (rsrcs *Resources) AddEntry(name string, file *os.File) error {
	fileMmap, mmapErr := readMmap(file)
	if mmapErr != nil {
		return errors.New(
			fmt.Sprintf("error trying to mmap file: %s", mmapErr))
	}
	(*rsrcs)[name] = ResourceEntry{file, fileMmap}
	return nil
}

// FetchHuggingFace
// Wrapper around FetchHTTP that fetches a resource from huggingface.co.
func FetchHuggingFace(id string, rsrc string, auth string) (io.ReadCloser,
	error) {
	return FetchHTTP("https://huggingface.co/"+id+"/resolve/main", rsrc,
		auth)
}

// SizeHuggingFace
// Wrapper around SizeHTTP that gets the size of a resource from
// huggingface.co.
func SizeHuggingFace(id string, rsrc string, auth string) (uint, error) {
	return SizeHTTP("https://huggingface.co/"+id+"/resolve/main", rsrc,
		auth)
}

func isValidUrl(toTest string) bool {
	_, err := url.ParseRequestURI(toTest)
	if err != nil {
		return false
	}

	u, err := url.Parse(toTest)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}

	return true
}

// Fetch
// Given a base URI and a resource name, determines if the resource is
// local, remote, or from huggingface.co. If the resource is local, it
// returns a file handle to the resource; otherwise it fetches the
// resource and returns a ReadCloser to it.
func Fetch(uri string, rsrc string, auth string) (io.ReadCloser, error) {
	if isValidUrl(uri) {
		return FetchHTTP(uri, rsrc, auth)
	} else if _, err := os.Stat(path.Join(uri, rsrc)); !os.IsNotExist(err) {
		if handle, fileErr := os.Open(path.Join(uri, rsrc)); fileErr != nil {
			return nil, errors.New(
				fmt.Sprintf("error opening %s/%s: %v",
					uri, rsrc, fileErr))
		} else {
			return handle, fileErr
		}
	} else {
		return FetchHuggingFace(uri, rsrc, auth)
	}
}

// Size
// Given a base URI and a resource name, determine the size of the resource.
func Size(uri string, rsrc string, auth string) (uint, error) {
	if isValidUrl(uri) {
		return SizeHTTP(uri, rsrc, auth)
	} else if fsz, err := os.Stat(path.Join(uri, rsrc)); !os.IsNotExist(err) {
		return uint(fsz.Size()), nil
	} else {
		return SizeHuggingFace(uri, rsrc, auth)
	}
}

// hasTokenizerFiles reports whether dir already holds every tokenizer
// artifact as a plain local file.
func hasTokenizerFiles(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	for _, file := range TokenizerFiles() {
		if _, err := os.Stat(path.Join(dir, file)); err != nil {
			return false
		}
	}
	return true
}

// ResolveTokenizer
// Ensures the tokenizer documents exist locally, and returns the
// directory holding them. A uri naming a directory that already carries
// both documents is used as is; a remote URL or huggingface model id is
// downloaded into dir, skipping files already present at the reported
// size.
func ResolveTokenizer(uri string, dir string, auth string) (string, error) {
	if hasTokenizerFiles(uri) {
		return uri, nil
	}
	if mkdirErr := os.MkdirAll(dir, 0755); mkdirErr != nil {
		return "", mkdirErr
	}
	for _, file := range TokenizerFiles() {
		log.Printf("Resolving %s/%s... ", uri, file)
		targetPath := path.Join(dir, file)
		rsrcSize, rsrcSizeErr := Size(uri, file, auth)
		if rsrcSizeErr != nil {
			return "", errors.New(fmt.Sprintf(
				"cannot retrieve required `%s` from `%s`: %s",
				file, uri, rsrcSizeErr))
		}
		if targetStat, targetStatErr := os.Stat(targetPath); targetStatErr == nil &&
			uint(targetStat.Size()) == rsrcSize {
			log.Printf("Skipping %s/%s... already exists, "+
				"and of the correct size.", uri, file)
			continue
		}
		rsrcReader, rsrcErr := Fetch(uri, file, auth)
		if rsrcErr != nil {
			return "", errors.New(fmt.Sprintf(
				"cannot retrieve `%s` from `%s`: %s",
				file, uri, rsrcErr))
		}
		rsrcFile, rsrcFileErr := os.OpenFile(targetPath,
			os.O_TRUNC|os.O_RDWR|os.O_CREATE, 0644)
		if rsrcFileErr != nil {
			rsrcReader.Close()
			return "", errors.New(fmt.Sprintf(
				"error opening '%s' for write: %s",
				targetPath, rsrcFileErr))
		}
		counter := &WriteCounter{
			Last: time.Now(),
			Path: fmt.Sprintf("%s/%s", uri, file),
			Size: uint64(rsrcSize),
		}
		bytesDownloaded, ioErr := io.Copy(rsrcFile,
			io.TeeReader(rsrcReader, counter))
		rsrcReader.Close()
		rsrcFile.Close()
		if ioErr != nil {
			return "", errors.New(fmt.Sprintf(
				"error downloading '%s': %s", file, ioErr))
		}
		log.Println(fmt.Sprintf("Downloaded %s/%s... %s completed.",
			uri, file, humanize.Bytes(uint64(bytesDownloaded))))
	}
	return dir, nil
}

// LoadTokenizerDir
// Opens and maps both tokenizer documents from dir. The caller owns the
// returned resources and should Cleanup when done with the data.
func LoadTokenizerDir(dir string) (*Resources, error) {
	foundResources := make(Resources, 2)
	for _, file := range TokenizerFiles() {
		handle, openErr := os.Open(path.Join(dir, file))
		if openErr != nil {
			foundResources.Cleanup()
			return nil, errors.New(fmt.Sprintf(
				"cannot open `%s` in `%s`: %s", file, dir, openErr))
		}
		if mmapErr := foundResources.AddEntry(file, handle); mmapErr != nil {
			handle.Close()
			foundResources.Cleanup()
			return nil, mmapErr
		}
	}
	return &foundResources, nil
}
