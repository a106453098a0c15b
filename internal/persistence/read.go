package persistence

import (
	"fmt"
	"io"
	"log/slog"
)

func readAll(reader io.ReadCloser) ([]byte, error) {
	defer func() {
		if err := reader.Close(); err != nil {
			slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		}
	}()

	content, err := io.ReadAll(reader)

	if err != nil {
		return nil, err
	}

	return content, nil
}
