// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar_test

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/devblok/korugl/utility/kar"
	"github.com/pierrec/lz4"
)

var (
	testString1 = "idunvovkjnreovmegihjbrqlkmfrjnb"
	testString2 = "idunvovkjnreovmsdvwrvnervnreegihjbrqlkmfrjnb"
)

func buildArchive(t *testing.T, files map[string]string) []byte {
	builder, err := kar.NewBuilder(kar.Header{
		Author:      "devblok",
		DateCreated: time.Now().Unix(),
		Version:     1,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer builder.Close()

	for name, content := range files {
		if err := builder.Add(name, strings.NewReader(content)); err != nil {
			t.Fatal(err)
		}
	}
	if builder.Len() != len(files) {
		t.Fatalf("incorrect number of files present: %d", builder.Len())
	}

	buf := bytes.NewBuffer([]byte{})
	written, err := builder.WriteTo(buf)
	if err != nil {
		t.Fatal(err)
	}
	if written != int64(buf.Len()) {
		t.Fatalf("reported %d bytes written, buffer holds %d", written, buf.Len())
	}
	return buf.Bytes()
}

func TestCreateAndRead(t *testing.T) {
	data := buildArchive(t, map[string]string{
		"test":  testString1,
		"test2": testString2,
	})

	ar, err := kar.Open(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	f, err := ar.Open("test")
	if err != nil {
		t.Fatal(err)
	}

	result := make([]byte, f.Size())
	if _, err := io.ReadFull(f, result); err != nil {
		t.Fatal(err)
	}

	if strings.Compare(string(result), testString1) != 0 {
		t.Error("test string does not match up")
	}
}

func TestCreateAndReadAll(t *testing.T) {
	data := buildArchive(t, map[string]string{
		"test":  testString1,
		"test2": testString2,
	})

	ar, err := kar.Open(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	for name, expected := range map[string]string{"test": testString1, "test2": testString2} {
		f, err := ar.ReadAll(name)
		if err != nil {
			t.Fatal(err)
		}
		if strings.Compare(string(f), expected) != 0 {
			t.Errorf("%s: test string does not match up", name)
		}
	}
}

func TestHeaderAndNames(t *testing.T) {
	data := buildArchive(t, map[string]string{
		"shaders/simple.frag": "void main() {}",
		"shaders/simple.vert": "void main() {}",
	})

	ar, err := kar.Open(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	if ar.Header().Author != "devblok" {
		t.Errorf("incorrect author: %s", ar.Header().Author)
	}

	names := ar.Names()
	if len(names) != 2 || names[0] != "shaders/simple.frag" || names[1] != "shaders/simple.vert" {
		t.Errorf("incorrect names: %v", names)
	}

	entry, err := ar.Stat("shaders/simple.vert")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Size != int64(len("void main() {}")) {
		t.Errorf("incorrect size: %d", entry.Size)
	}
}

func TestOpenMissing(t *testing.T) {
	data := buildArchive(t, map[string]string{"test": testString1})

	ar, err := kar.Open(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ar.Open("nope"); err != kar.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := ar.ReadAll("nope"); err != kar.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestOpenNotArchive(t *testing.T) {
	if _, err := kar.Open(strings.NewReader("definitely not a kar file")); err != kar.ErrFileFormat {
		t.Errorf("expected ErrFileFormat, got %v", err)
	}
	if _, err := kar.Open(strings.NewReader("KA")); err != kar.ErrFileFormat {
		t.Errorf("expected ErrFileFormat, got %v", err)
	}
}

func TestOpenCorruptHeaderSize(t *testing.T) {
	data := []byte("KAR\x00")
	size := make([]byte, kar.HeaderSizeNumberLength)
	binary.LittleEndian.PutUint64(size, 1<<62)
	data = append(data, size...)

	if _, err := kar.Open(bytes.NewReader(data)); err != kar.ErrFileFormat {
		t.Errorf("expected ErrFileFormat, got %v", err)
	}

	// Without a known length the header size is capped.
	unsized := struct{ io.ReaderAt }{bytes.NewReader(data)}
	if _, err := kar.Open(unsized); err != kar.ErrFileFormat {
		t.Errorf("expected ErrFileFormat from unsized reader, got %v", err)
	}
}

func TestOpenTruncated(t *testing.T) {
	data := buildArchive(t, map[string]string{"test": testString1, "test2": testString2})

	if _, err := kar.Open(bytes.NewReader(data[:len(data)-1])); err != kar.ErrFileFormat {
		t.Errorf("expected ErrFileFormat, got %v", err)
	}
	if _, err := kar.Open(bytes.NewReader(data[:kar.MagicLength+kar.HeaderSizeNumberLength+2])); err != kar.ErrFileFormat {
		t.Errorf("expected ErrFileFormat for a cut header, got %v", err)
	}
}

func TestReadAllSizeMismatch(t *testing.T) {
	var compressed bytes.Buffer
	zw := lz4.NewWriter(&compressed)
	if _, err := zw.Write([]byte(testString1)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	var header bytes.Buffer
	if err := gob.NewEncoder(&header).Encode(kar.Header{
		Author: "devblok",
		Index: []kar.IndexEntry{{
			Name:           "test",
			Size:           1 << 40,
			CompressedSize: int64(compressed.Len()),
		}},
	}); err != nil {
		t.Fatal(err)
	}

	data := []byte("KAR\x00")
	size := make([]byte, kar.HeaderSizeNumberLength)
	binary.LittleEndian.PutUint64(size, uint64(header.Len()))
	data = append(data, size...)
	data = append(data, header.Bytes()...)
	data = append(data, compressed.Bytes()...)

	ar, err := kar.Open(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ar.ReadAll("test"); err != kar.ErrFileFormat {
		t.Errorf("expected ErrFileFormat, got %v", err)
	}
}
