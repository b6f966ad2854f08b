package audit

import (
	"encoding/json"

	"github.com/dusk-indust/slideroute/internal/contract"
)

// SparseThreshold is the minimum textual length, in bytes, considered
// adequate for a contracted block.
const SparseThreshold = 40

// Sparsity severities and skip reasons.
const (
	SeverityEmpty = "empty"
	SeverityThin  = "thin"

	ReasonNoContent = "no_content_provided"
)

// SparseEntry flags one under-sized block.
type SparseEntry struct {
	BlockKey string `json:"blockKey"`
	Length   int    `json:"length"`
	Severity string `json:"severity"`
}

// AdequateEntry records one block at or above the threshold.
type AdequateEntry struct {
	BlockKey string `json:"blockKey"`
	Length   int    `json:"length"`
}

// SkippedEntry records one block that could not be measured.
type SkippedEntry struct {
	BlockKey string `json:"blockKey"`
	Reason   string `json:"reason"`
}

// SparsityReport is the JSON-serializable result of one sparsity check.
type SparsityReport struct {
	Sparse    []SparseEntry   `json:"sparse"`
	Adequate  []AdequateEntry `json:"adequate"`
	Skipped   []SkippedEntry  `json:"skipped"`
	Threshold int             `json:"threshold"`
}

// CheckSparseContent measures the textual length of each contracted block's
// content. Strings measure directly; {text: ...} shapes measure that field;
// anything else measures its serialized form. Entries absent from the
// content map, or explicitly nil, are skipped rather than flagged.
func CheckSparseContent(blocks map[string]*contract.BlockContract, content map[string]any) *SparsityReport {
	report := &SparsityReport{
		Sparse:    []SparseEntry{},
		Adequate:  []AdequateEntry{},
		Skipped:   []SkippedEntry{},
		Threshold: SparseThreshold,
	}

	for _, key := range sortedKeys(blocks) {
		value, ok := content[key]
		if !ok || value == nil {
			report.Skipped = append(report.Skipped, SkippedEntry{BlockKey: key, Reason: ReasonNoContent})
			continue
		}

		length := contentLength(value)
		switch {
		case length >= SparseThreshold:
			report.Adequate = append(report.Adequate, AdequateEntry{BlockKey: key, Length: length})
		case length == 0:
			report.Sparse = append(report.Sparse, SparseEntry{BlockKey: key, Length: length, Severity: SeverityEmpty})
		default:
			report.Sparse = append(report.Sparse, SparseEntry{BlockKey: key, Length: length, Severity: SeverityThin})
		}
	}
	return report
}

func contentLength(value any) int {
	switch v := value.(type) {
	case string:
		return len(v)
	case map[string]any:
		if text, ok := v["text"].(string); ok {
			return len(text)
		}
	}
	data, err := json.Marshal(value)
	if err != nil {
		return 0
	}
	return len(data)
}
