package intake

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"montago/models"
	"montago/repository"
	"montago/storage"

	"gorm.io/gorm"
)

// RejectionKind classifies why an intake was refused.
type RejectionKind int

const (
	RejectNoFile RejectionKind = iota
	RejectBadExtension
	RejectStorageError
	RejectCodeNotFound
	RejectCodeMismatch
	RejectOrderClosed
)

// RejectionError is the user-visible outcome of a failed intake. Every
// fatal stage maps to exactly one kind; CodeMismatch carries the value
// that was actually scanned to help the operator.
type RejectionError struct {
	Kind  RejectionKind
	Found string
}

func (e *RejectionError) Error() string {
	switch e.Kind {
	case RejectNoFile:
		return "no protocol file attached"
	case RejectBadExtension:
		return "protocol file has a wrong extension"
	case RejectStorageError:
		return "failed to store the protocol file"
	case RejectCodeNotFound:
		return "no machine-readable code found in the protocol"
	case RejectCodeMismatch:
		return fmt.Sprintf("protocol code %q does not belong to this order", e.Found)
	case RejectOrderClosed:
		return "order is closed and no longer accepts protocols"
	default:
		return "protocol rejected"
	}
}

// Upload abstracts an inbound protocol scan, so the pipeline does not
// depend on HTTP plumbing.
type Upload struct {
	FileName    string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// UploadFromMultipart adapts a multipart form file to an Upload.
func UploadFromMultipart(fh *multipart.FileHeader) Upload {
	if fh == nil {
		return Upload{}
	}
	return Upload{
		FileName:    filepath.Base(fh.Filename),
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// UploadFromPath adapts a file on disk to an Upload.
func UploadFromPath(path string) Upload {
	return Upload{
		FileName: filepath.Base(path),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// DefaultAllowedExtensions is the inbound image allow-list used when
// PROTOCOL_EXTENSIONS is not set.
var DefaultAllowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp"}

// Pipeline runs the protocol intake for one order: validate the upload,
// rename it to the canonical order-derived name, persist it as the
// order's single protocol file, verify the embedded code, flip the
// order to REALIZED, clear the verification token, and best-effort
// convert the scan to a compact encoding.
//
// Submissions for the same order serialize on an order-scoped lock, so
// the delete-old/write-new sequence is atomic with respect to readers of
// that order's file; different orders never block each other.
type Pipeline struct {
	db      *gorm.DB
	files   *storage.FileStore
	allowed map[string]bool
	compact func(io.Reader) ([]byte, error)

	locks sync.Map // order id -> *sync.Mutex
}

// NewPipeline wires an intake pipeline. extensions is the case-
// insensitive allow-list of inbound image extensions; nil selects the
// default set.
func NewPipeline(db *gorm.DB, files *storage.FileStore, extensions []string) *Pipeline {
	if extensions == nil {
		extensions = DefaultAllowedExtensions
	}
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = true
	}
	return &Pipeline{db: db, files: files, allowed: allowed, compact: ConvertToCompact}
}

// ProtocolName is the canonical stored name of an order's protocol scan.
func ProtocolName(orderNumber, ext string) string {
	return strings.ToUpper(strings.TrimSpace(orderNumber)) + strings.ToLower(ext)
}

func (p *Pipeline) orderLock(orderID uint) *sync.Mutex {
	mu, _ := p.locks.LoadOrStore(orderID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Submit runs the intake for one uploaded protocol. It returns nil on
// success or a *RejectionError describing why nothing was accepted.
// Stages 1-4 are fatal and leave no unverifiable file attached to the
// order; the final conversion stage is best-effort and only logged.
func (p *Pipeline) Submit(order *models.Order, upload Upload, actor models.Actor) error {
	// CANCELED and HIDDEN are absorbing; a closed order never leaves
	// its state again, not even for a valid protocol.
	if order.IsTerminal() {
		return &RejectionError{Kind: RejectOrderClosed}
	}

	// Stage 1: format validation. Nothing is persisted before this
	// stage passes.
	if upload.FileName == "" || upload.Open == nil {
		return &RejectionError{Kind: RejectNoFile}
	}
	ext := strings.ToLower(filepath.Ext(upload.FileName))
	if !p.allowed[ext] {
		return &RejectionError{Kind: RejectBadExtension}
	}

	// Stage 2: rename. Storage never depends on the uploader-supplied
	// name.
	canonical := ProtocolName(order.Number, ext)

	mu := p.orderLock(order.ID)
	mu.Lock()
	defer mu.Unlock()

	// Stage 3: persist. The previous blob is deleted first; there are
	// never two live protocol files for one order.
	src, err := upload.Open()
	if err != nil {
		return &RejectionError{Kind: RejectStorageError}
	}
	defer src.Close()

	prior, err := repository.GetProtocolFile(p.db, order.ID)
	if err != nil {
		return &RejectionError{Kind: RejectStorageError}
	}
	oldName := ""
	if prior != nil {
		oldName = prior.FileName
	}

	size, err := p.files.Replace(oldName, canonical, src)
	if err != nil {
		log.Printf("protocol intake: persist failed for order %s: %v", order.Number, err)
		return &RejectionError{Kind: RejectStorageError}
	}
	if _, err := repository.ReplaceProtocolFile(p.db, order.ID, canonical, upload.ContentType, size); err != nil {
		log.Printf("protocol intake: persist failed for order %s: %v", order.Number, err)
		// The prior row points at the already-deleted old blob, so the
		// row has to go together with the new blob.
		p.discard(order, canonical)
		return &RejectionError{Kind: RejectStorageError}
	}

	// Stage 4: code verification. A wrong or unreadable protocol must
	// never remain attached to the order, so a failure here deletes the
	// file that was just persisted.
	if err := p.verifyCode(order, canonical); err != nil {
		p.discard(order, canonical)
		return err
	}

	// Stages 5 and 6: status transition and token clearing, one
	// transaction.
	err = p.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.MarkRealized(tx, order, actor); err != nil {
			return err
		}
		return repository.ClearVerificationToken(tx, order.ID)
	})
	if err != nil {
		log.Printf("protocol intake: status update failed for order %s: %v", order.Number, err)
		p.discard(order, canonical)
		return &RejectionError{Kind: RejectStorageError}
	}

	// Stage 7: best-effort conversion. The order is already closed out;
	// failures are logged, never surfaced.
	if err := p.convert(order, canonical); err != nil {
		log.Printf("protocol intake: conversion skipped for order %s: %v", order.Number, err)
	}
	return nil
}

// verifyCode decodes the persisted scan and compares it to the order
// number, case-insensitively.
func (p *Pipeline) verifyCode(order *models.Order, name string) error {
	f, err := p.files.Open(name)
	if err != nil {
		return &RejectionError{Kind: RejectStorageError}
	}
	defer f.Close()

	decoded, err := DecodeOrderCode(f)
	if err != nil {
		return &RejectionError{Kind: RejectCodeNotFound}
	}
	if !strings.EqualFold(strings.TrimSpace(decoded), order.CanonicalNumber()) {
		return &RejectionError{Kind: RejectCodeMismatch, Found: decoded}
	}
	return nil
}

// discard is the compensating cleanup: remove the just-persisted blob
// and its row so the order is left without an unverifiable file.
func (p *Pipeline) discard(order *models.Order, name string) {
	if err := p.files.Remove(name); err != nil {
		log.Printf("protocol intake: cleanup failed for order %s: %v", order.Number, err)
	}
	if err := repository.DeleteProtocolFile(p.db, order.ID); err != nil {
		log.Printf("protocol intake: cleanup failed for order %s: %v", order.Number, err)
	}
}

// convert re-encodes the accepted scan to a compact JPEG and swaps the
// stored protocol file. The verified original is only removed after the
// compact copy is written and recorded, so a failure at any point still
// leaves a readable accepted protocol.
func (p *Pipeline) convert(order *models.Order, name string) error {
	f, err := p.files.Open(name)
	if err != nil {
		return err
	}
	compact, err := p.compact(f)
	f.Close()
	if err != nil {
		return err
	}

	jpgName := ProtocolName(order.Number, ".jpg")
	if _, err := p.files.Replace("", jpgName, bytes.NewReader(compact)); err != nil {
		return err
	}
	if _, err := repository.ReplaceProtocolFile(p.db, order.ID, jpgName, "image/jpeg", int64(len(compact))); err != nil {
		return err
	}
	if name != jpgName {
		return p.files.Remove(name)
	}
	return nil
}
