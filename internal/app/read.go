package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// maxBodyBytes bounds request bodies; matrix payloads are small and anything
// larger is not a legitimate client.
const maxBodyBytes = 1 << 20

// Read drains a request body up to maxBodyBytes and always closes it.
func Read(reader io.ReadCloser) ([]byte, error) {
	defer func() {
		if err := reader.Close(); err != nil {
			slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		}
	}()

	content, err := io.ReadAll(io.LimitReader(reader, maxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if len(content) > maxBodyBytes {
		return nil, errors.New("request body too large")
	}

	return content, nil
}

func ReadJSON[T any](content []byte) (*T, error) {
	var t *T
	err := json.Unmarshal(content, &t)

	if err != nil {
		return nil, err
	}

	return t, nil
}
