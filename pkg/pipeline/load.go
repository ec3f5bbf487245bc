package pipeline

import (
	"bytes"
	"os"

	"github.com/charmbracelet/log"

	"github.com/dxfscope/dxfscope/pkg/cache"
	"github.com/dxfscope/dxfscope/pkg/dxf"
	"github.com/dxfscope/dxfscope/pkg/errors"
)

// LoadedDocument is the result of the load stage: the parsed document plus
// everything later stages need to know about how it was obtained.
type LoadedDocument struct {
	Doc *dxf.Document

	// Hash is the SHA-256 of the raw file, used to key cached artifacts.
	Hash string

	// RecoverIssues were found and tolerated by the recovering parser.
	RecoverIssues []dxf.Issue

	// AuditIssues were found by the post-load structural audit.
	AuditIssues []dxf.Issue
}

// LoadDocument reads and parses a drawing. The recovering parser runs
// first; if it cannot extract anything usable the strict parser gets a try,
// and only when both fail is the document unreadable. Recovery and audit
// issues are logged but never abort the load.
func LoadDocument(path string, logger *log.Logger) (*LoadedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeUnreadableDocument, err, "read %s", path)
	}

	loaded := &LoadedDocument{Hash: cache.Hash(data)}

	doc, issues, rerr := dxf.RecoverReader(bytes.NewReader(data))
	if rerr != nil {
		logger.Warn("recovering parser failed, retrying strict", "error", rerr)
		doc, err = dxf.Read(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeUnreadableDocument, rerr, "unreadable DXF document: %s", path)
		}
		issues = nil
	}
	loaded.Doc = doc
	loaded.RecoverIssues = issues

	loaded.AuditIssues = doc.Audit()
	if len(loaded.RecoverIssues) > 0 || len(loaded.AuditIssues) > 0 {
		logger.Warn("document loaded with issues",
			"recover_issues", len(loaded.RecoverIssues),
			"audit_issues", len(loaded.AuditIssues))
	}
	return loaded, nil
}
