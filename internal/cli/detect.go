package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/codalotl/minedit/internal/changes"
	qcli "github.com/codalotl/minedit/internal/q/cli"
)

type detectOutput struct {
	Units string `json:"units"`
	changes.Change
}

func runDetect(c *qcli.Context, units string) error {
	if c.Args[0] == "-" && c.Args[1] == "-" {
		return qcli.UsageError{Message: "only one of <original> and <candidate> may be -"}
	}
	original, err := readInput(c, c.Args[0])
	if err != nil {
		return err
	}
	candidate, err := readInput(c, c.Args[1])
	if err != nil {
		return err
	}

	var ch changes.Change
	switch units {
	case unitsRunes:
		ch = changes.DetectRunes(original, candidate)
	case unitsUTF16:
		ch = changes.DetectUTF16(original, candidate)
	case unitsGraphemes:
		ch = changes.DetectGraphemes(original, candidate)
	default:
		ch = changes.Detect(original, candidate)
	}

	enc := json.NewEncoder(c.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(detectOutput{Units: units, Change: ch})
}

// readInput reads path, or stdin if path is "-".
func readInput(c *qcli.Context, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(c.In)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
