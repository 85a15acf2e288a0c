package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	environmentFileLoadErrorTemplateConstant = "failed to load environment file %s: %w"
)

// EnvironmentFileLoader loads dotenv files into the current process environment.
// Variables that are already set are never overwritten.
type EnvironmentFileLoader struct {
	statFile func(string) (os.FileInfo, error)
}

// NewEnvironmentFileLoader constructs an EnvironmentFileLoader backed by the operating system.
func NewEnvironmentFileLoader() *EnvironmentFileLoader {
	return &EnvironmentFileLoader{statFile: os.Stat}
}

// Load reads each existing file from baseDirectory in order and returns the paths that were applied.
// Missing files are skipped.
func (loader *EnvironmentFileLoader) Load(baseDirectory string, fileNames []string) ([]string, error) {
	loadedFiles := make([]string, 0, len(fileNames))
	for _, fileName := range fileNames {
		filePath := fileName
		if !filepath.IsAbs(filePath) {
			filePath = filepath.Join(baseDirectory, fileName)
		}

		if _, statError := loader.statFile(filePath); statError != nil {
			if errors.Is(statError, fs.ErrNotExist) {
				continue
			}
			return loadedFiles, fmt.Errorf(environmentFileLoadErrorTemplateConstant, filePath, statError)
		}

		if loadError := godotenv.Load(filePath); loadError != nil {
			return loadedFiles, fmt.Errorf(environmentFileLoadErrorTemplateConstant, filePath, loadError)
		}
		loadedFiles = append(loadedFiles, filePath)
	}
	return loadedFiles, nil
}
