// Package save reads and writes session save files. A save file is a zstd
// stream holding one JSON header line followed by the JSON world.Data body.
package save

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/samber/oops"

	"lorekeeper/internal/config"
	"lorekeeper/internal/integrity"
	"lorekeeper/internal/schema"
	"lorekeeper/internal/world"
)

// Version is the save format written by Write.
const Version = 1

const (
	CodeUnreadable    = "SAVE_UNREADABLE"
	CodeSchemaInvalid = "SAVE_SCHEMA_INVALID"
	CodeIntegrity     = "SAVE_INTEGRITY"
	CodeWriteFailed   = "SAVE_WRITE_FAILED"
)

type Header struct {
	Version   int       `json:"version"`
	SessionID string    `json:"session_id"`
	SavedAt   time.Time `json:"saved_at"`
}

// File is a decoded save file whose body passed schema validation.
type File struct {
	Header Header
	Data   world.Data
}

var (
	dataSchemaOnce sync.Once
	dataSchema     *jschema.Schema
	dataSchemaErr  error
)

func worldSchema() (*jschema.Schema, error) {
	dataSchemaOnce.Do(func() {
		dataSchema, dataSchemaErr = schema.Compile("world-data", world.Data{})
	})
	return dataSchema, dataSchemaErr
}

// Write saves d to path. The file is written next to path and renamed into
// place, so readers never observe a partial save.
func Write(path, sessionID string, d world.Data) error {
	errb := oops.Code(CodeWriteFailed).With("path", path)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errb.Wrapf(err, "creating save directory")
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return errb.Wrapf(err, "creating temp file")
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := encode(tmp, Header{Version: Version, SessionID: sessionID, SavedAt: time.Now().UTC()}, d); err != nil {
		tmp.Close()
		return errb.Wrapf(err, "encoding save")
	}
	if err := tmp.Close(); err != nil {
		return errb.Wrapf(err, "closing temp file")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errb.Wrapf(err, "renaming save into place")
	}
	return nil
}

func encode(w io.Writer, h Header, d world.Data) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 64*1024)

	hb, err := json.Marshal(h)
	if err != nil {
		enc.Close()
		return err
	}
	if _, err := bw.Write(hb); err != nil {
		enc.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		enc.Close()
		return err
	}
	if err := json.NewEncoder(bw).Encode(d); err != nil {
		enc.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// Read decodes the save file at path and validates its body against the
// world.Data schema. It does not audit the world; see Load.
func Read(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, oops.Code(CodeUnreadable).With("path", path).Wrapf(err, "opening save")
	}
	defer f.Close()
	return decode(f, path)
}

func decode(r io.Reader, path string) (*File, error) {
	errb := oops.Code(CodeUnreadable).With("path", path)

	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, errb.Wrapf(err, "opening zstd stream")
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 64*1024)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return nil, errb.Wrapf(err, "reading header")
	}
	var h Header
	if err := json.Unmarshal(line, &h); err != nil {
		return nil, errb.Wrapf(err, "parsing header")
	}
	if h.Version != Version {
		return nil, errb.With("version", h.Version).Errorf("unsupported save version %d", h.Version)
	}

	body, err := io.ReadAll(br)
	if err != nil {
		return nil, errb.Wrapf(err, "reading body")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errb.Errorf("save has no body")
	}

	sch, err := worldSchema()
	if err != nil {
		return nil, oops.Code(CodeSchemaInvalid).Wrapf(err, "compiling world schema")
	}
	if err := schema.Validate(sch, body); err != nil {
		return nil, oops.Code(CodeSchemaInvalid).
			With("path", path).
			With("detail", schema.FormatError(err)).
			Wrapf(err, "validating save body")
	}

	var d world.Data
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, oops.Code(CodeSchemaInvalid).With("path", path).Wrapf(err, "decoding save body")
	}
	return &File{Header: h, Data: d}, nil
}

// Load reads path, audits the world it holds and rebuilds the State. Any
// failure fails the whole load. sections may be nil.
func Load(path string, sections *config.SectionSchema) (*world.State, Header, error) {
	file, err := Read(path)
	if err != nil {
		return nil, Header{}, err
	}
	if err := integrity.Audit(file.Data, sections).Err(); err != nil {
		return nil, file.Header, oops.Code(CodeIntegrity).With("path", path).Wrap(err)
	}
	state, err := world.Import(file.Data)
	if err != nil {
		return nil, file.Header, oops.Code(CodeIntegrity).With("path", path).Wrap(err)
	}
	return state, file.Header, nil
}

// Exists reports whether a save file is present at path.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
