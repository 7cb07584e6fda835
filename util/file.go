package util

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// serializes appends from concurrent workers
var appendLock = new(sync.Mutex)

// WriteToFile writes the lines to savePath, replacing its content
func WriteToFile(savePath string, lines ...string) error {
	if err := os.MkdirAll(filepath.Dir(savePath), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(savePath, []byte(strings.Join(lines, "\n")+"\n"), 0644)
}

// AppendToFile appends every line to savePath, creating the file if needed
func AppendToFile(savePath string, lines ...string) error {
	appendLock.Lock()
	defer appendLock.Unlock()

	if err := os.MkdirAll(filepath.Dir(savePath), os.ModePerm); err != nil {
		return err
	}
	f, err := os.OpenFile(savePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, s := range lines {
		if _, err = f.WriteString(s + "\n"); err != nil {
			return err
		}
	}
	return nil
}
