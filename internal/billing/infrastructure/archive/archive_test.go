package archive

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestFS_Put(t *testing.T) {
	root := t.TempDir()
	a, err := NewFS(root)
	if err != nil {
		t.Fatalf("new fs: %v", err)
	}
	key := StatementKey("inv-1", "txt")
	if key != "statements/inv-1.txt" {
		t.Fatalf("unexpected key %s", key)
	}
	if err := a.Put(context.Background(), key, "text/plain", []byte("hello")); err != nil {
		t.Fatalf("put: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "statements", "inv-1.txt"))
	if err != nil || string(data) != "hello" {
		t.Fatalf("unexpected content %q: %v", data, err)
	}
	if err := a.Put(context.Background(), "../escape", "", nil); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected invalid key, got %v", err)
	}
}

func TestStatementKey_EscapesInvoiceID(t *testing.T) {
	cases := map[string]string{
		"BigCo":   "statements/BigCo.pdf",
		"../x":    "statements/..%2Fx.pdf",
		"a/b":     "statements/a%2Fb.pdf",
		"Big Co.": "statements/Big%20Co..pdf",
	}
	root := t.TempDir()
	a, _ := NewFS(root)
	for id, want := range cases {
		key := StatementKey(id, "pdf")
		if key != want {
			t.Fatalf("%q: expected key %s, got %s", id, want, key)
		}
		if err := a.Put(context.Background(), key, "application/pdf", []byte("%PDF")); err != nil {
			t.Fatalf("%q: put: %v", id, err)
		}
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(root), "x.pdf")); err == nil {
		t.Fatalf("statement escaped the archive root")
	}
}

func TestFS_PutRemovesTempFileOnFailure(t *testing.T) {
	root := t.TempDir()
	a, _ := NewFS(root)
	// A non-empty directory at the target path makes the rename fail.
	target := filepath.Join(root, "statements", "inv-1.pdf")
	if err := os.MkdirAll(filepath.Join(target, "keep"), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := a.Put(context.Background(), "statements/inv-1.pdf", "", []byte("%PDF")); err == nil {
		t.Fatalf("expected rename failure")
	}
	if _, err := os.Stat(target + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be removed, stat err %v", err)
	}
}

type stubPutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (s *stubPutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	s.input = in
	if in.Body != nil {
		s.body, _ = io.ReadAll(in.Body)
	}
	if s.err != nil {
		return nil, s.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3_Put(t *testing.T) {
	stub := &stubPutter{}
	a, err := NewS3WithClient(stub, "statements-bucket")
	if err != nil {
		t.Fatalf("new s3: %v", err)
	}
	if a.Driver() != DriverS3 {
		t.Fatalf("unexpected driver %s", a.Driver())
	}
	if err := a.Put(context.Background(), "statements/inv-1.pdf", "application/pdf", []byte("%PDF")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if *stub.input.Bucket != "statements-bucket" || *stub.input.Key != "statements/inv-1.pdf" {
		t.Fatalf("unexpected input %+v", stub.input)
	}
	if *stub.input.ContentType != "application/pdf" || string(stub.body) != "%PDF" {
		t.Fatalf("unexpected upload")
	}

	stub.err = errors.New("boom")
	if err := a.Put(context.Background(), "statements/inv-2.pdf", "", nil); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := NewS3WithClient(nil, "b"); err == nil {
		t.Fatalf("expected nil client error")
	}
}
