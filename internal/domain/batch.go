package domain

import "path/filepath"

type OperationKind string

const (
	OpCopy OperationKind = "copy"
	OpMove OperationKind = "move"
)

type FileOperation struct {
	Kind   OperationKind
	Source string
	Target string
}

func Copy(source, target string) FileOperation {
	return FileOperation{Kind: OpCopy, Source: source, Target: target}
}

func Move(source, target string) FileOperation {
	return FileOperation{Kind: OpMove, Source: source, Target: target}
}

// OperationsFor builds one operation per record, targeting targetDir/record.Name.
func OperationsFor(kind OperationKind, records []ImageFileRecord, targetDir string) []FileOperation {
	ops := make([]FileOperation, 0, len(records))
	for _, record := range records {
		ops = append(ops, FileOperation{
			Kind:   kind,
			Source: record.Path,
			Target: filepath.Join(targetDir, record.Name),
		})
	}
	return ops
}

type BatchResult struct {
	SuccessCount int      `json:"success_count"`
	FailedCount  int      `json:"failed_count"`
	Errors       []string `json:"errors"`
	Warnings     []string `json:"warnings,omitempty"`
}

func (r BatchResult) Total() int {
	return r.SuccessCount + r.FailedCount
}
