package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/simfoundry/internal/dynamo"
)

type ExportData struct {
	RunMetadata
	Times  []float64   `json:"times"`
	States [][]float64 `json:"states"`
}

// ExportJSON writes a run's metadata and trajectory as indented JSON.
func ExportJSON(w io.Writer, meta *RunMetadata, sol *dynamo.Solution) error {
	data := ExportData{
		RunMetadata: *meta,
		Times:       sol.T,
		States:      sol.Rows(),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSONFile(path string, meta *RunMetadata, sol *dynamo.Solution) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ExportJSON(file, meta, sol); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
