// Package diff computes line-granularity diffs between two text blobs and
// classifies contiguous change regions for revision display.
package diff

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// ChangeType tags a raw change record from the line matcher.
type ChangeType string

const (
	ChangeAdded     ChangeType = "added"
	ChangeRemoved   ChangeType = "removed"
	ChangeUnchanged ChangeType = "unchanged"
)

// Change is one raw record: a run of whole lines sharing a single fate.
// Value keeps trailing newlines, so concatenating values of one side
// reconstructs that side's text exactly.
type Change struct {
	Type  ChangeType `json:"type"`
	Value string     `json:"value"`
}

// BlockType classifies a finished diff block. A removed region immediately
// followed by an added region merges into a single modified block.
type BlockType string

const (
	BlockAdded     BlockType = "added"
	BlockRemoved   BlockType = "removed"
	BlockModified  BlockType = "modified"
	BlockUnchanged BlockType = "unchanged"
)

// Block is one contiguous region of change. Line ranges are 1-based
// inclusive; the side a block does not exist on carries a zero-width marker
// at the insertion point (start == end == line before the change, 0 at the
// top of the document).
type Block struct {
	Id           string    `json:"id"`
	Type         BlockType `json:"type"`
	OldStartLine int       `json:"oldStartLine"`
	OldEndLine   int       `json:"oldEndLine"`
	NewStartLine int       `json:"newStartLine"`
	NewEndLine   int       `json:"newEndLine"`
	OldContent   string    `json:"oldContent"`
	NewContent   string    `json:"newContent"`
	Changes      []Change  `json:"changes"`
}

// Side selects a coordinate space of a block.
type Side string

const (
	OldSide Side = "old"
	NewSide Side = "new"
)

// LineRange is a 1-based inclusive line span.
type LineRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// BlockLineRange returns the block's line span in the requested coordinate
// space. Renderers go through this instead of reaching into block fields.
func BlockLineRange(b Block, side Side) LineRange {
	if side == OldSide {
		return LineRange{Start: b.OldStartLine, End: b.OldEndLine}
	}
	return LineRange{Start: b.NewStartLine, End: b.NewEndLine}
}

// ComputeDiff diffs two texts line by line. The result is deterministic for
// a given input pair: raw change records from the line matcher are laid out
// into blocks, then adjacent removed+added pairs are merged into modified
// blocks. Any string input is fine, including empty on either side.
func ComputeDiff(oldText, newText string) []Block {
	changes := lineChanges(oldText, newText)
	return mergeBlocks(rawBlocks(changes))
}

// splitLines splits keeping the trailing newline on each line. A final line
// without a newline is kept as-is, so joining the pieces restores the input.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// lineChanges runs the LCS line matcher and lowers its opcodes to ordered
// change records. A replace opcode becomes a removed record followed by an
// added record; the merge pass later folds that pair into a modified block.
func lineChanges(oldText, newText string) []Change {
	oldLines := splitLines(oldText)
	newLines := splitLines(newText)

	matcher := difflib.NewMatcher(oldLines, newLines)

	var changes []Change
	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'e':
			changes = append(changes, Change{Type: ChangeUnchanged, Value: strings.Join(oldLines[op.I1:op.I2], "")})
		case 'd':
			changes = append(changes, Change{Type: ChangeRemoved, Value: strings.Join(oldLines[op.I1:op.I2], "")})
		case 'i':
			changes = append(changes, Change{Type: ChangeAdded, Value: strings.Join(newLines[op.J1:op.J2], "")})
		case 'r':
			changes = append(changes,
				Change{Type: ChangeRemoved, Value: strings.Join(oldLines[op.I1:op.I2], "")},
				Change{Type: ChangeAdded, Value: strings.Join(newLines[op.J1:op.J2], "")},
			)
		}
	}
	return changes
}

// countLines counts the lines in a change value. A trailing newline does not
// start an extra line; a missing trailing newline still counts the last one.
func countLines(value string) int {
	if value == "" {
		return 0
	}
	segments := strings.Split(value, "\n")
	if segments[len(segments)-1] == "" {
		return len(segments) - 1
	}
	return len(segments)
}

// rawBlocks walks the change records once, assigning line ranges in both
// coordinate spaces. One block per record; no merging happens here.
func rawBlocks(changes []Change) []Block {
	blocks := make([]Block, 0, len(changes))
	oldLineNum := 1
	newLineNum := 1

	for i, change := range changes {
		n := countLines(change.Value)
		block := Block{
			Id:      fmt.Sprintf("b%d", i+1),
			Changes: []Change{change},
		}

		switch change.Type {
		case ChangeAdded:
			block.Type = BlockAdded
			block.OldStartLine = max(oldLineNum-1, 0)
			block.OldEndLine = block.OldStartLine
			block.NewStartLine = newLineNum
			block.NewEndLine = newLineNum + n - 1
			block.NewContent = change.Value
			newLineNum += n
		case ChangeRemoved:
			block.Type = BlockRemoved
			block.NewStartLine = max(newLineNum-1, 0)
			block.NewEndLine = block.NewStartLine
			block.OldStartLine = oldLineNum
			block.OldEndLine = oldLineNum + n - 1
			block.OldContent = change.Value
			oldLineNum += n
		default:
			block.Type = BlockUnchanged
			block.OldStartLine = oldLineNum
			block.OldEndLine = oldLineNum + n - 1
			block.NewStartLine = newLineNum
			block.NewEndLine = newLineNum + n - 1
			block.OldContent = change.Value
			block.NewContent = change.Value
			oldLineNum += n
			newLineNum += n
		}

		blocks = append(blocks, block)
	}

	return blocks
}

// mergeBlocks folds each removed block immediately followed by an added
// block into one modified block. The merged block takes its old range from
// the removed half, its new range from the added half, and a composite id
// that keeps both source blocks traceable.
func mergeBlocks(raw []Block) []Block {
	merged := make([]Block, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		block := raw[i]
		if block.Type == BlockRemoved && i+1 < len(raw) && raw[i+1].Type == BlockAdded {
			added := raw[i+1]
			merged = append(merged, Block{
				Id:           block.Id + "-" + added.Id,
				Type:         BlockModified,
				OldStartLine: block.OldStartLine,
				OldEndLine:   block.OldEndLine,
				NewStartLine: added.NewStartLine,
				NewEndLine:   added.NewEndLine,
				OldContent:   block.OldContent,
				NewContent:   added.NewContent,
				Changes:      append(append([]Change{}, block.Changes...), added.Changes...),
			})
			i++
			continue
		}
		merged = append(merged, block)
	}
	return merged
}
