package report

import (
	"encoding/json"
	"os"

	"github.com/davitacols/ansa-fs/pkg/models"
)

// generateJSON writes the full analysis result as indented JSON. File
// content is excluded from serialization at the model level, so the
// report stays proportional to the tree, not the source it describes.
func (g *Generator) generateJSON(result *models.AnalysisResult, outputFile string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputFile, data, 0644)
}
