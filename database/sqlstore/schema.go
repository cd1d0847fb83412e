package sqlstore

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"text/template"

	"github.com/nasermirzaei89/talkboard/settings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Schema parameterizes the migrations: the dialect and the tables of the
// externally owned user and section entities.
type Schema struct {
	Dialect      Dialect
	UserTable    string
	SectionTable string
}

func NewSchema(dialect Dialect, resolved settings.Settings) (Schema, error) {
	if !dialect.IsValid() {
		return Schema{}, &UnknownDialectError{Dialect: dialect}
	}

	userTable, err := settings.TableName(resolved.UserEntityRef)
	if err != nil {
		return Schema{}, fmt.Errorf("failed to resolve user table: %w", err)
	}

	sectionTable, err := settings.TableName(resolved.SectionEntityRef)
	if err != nil {
		return Schema{}, fmt.Errorf("failed to resolve section table: %w", err)
	}

	return Schema{
		Dialect:      dialect,
		UserTable:    userTable,
		SectionTable: sectionTable,
	}, nil
}

func (schema Schema) TimestampType() string {
	if schema.Dialect == DialectPostgres {
		return "TIMESTAMPTZ"
	}

	return "DATETIME"
}

func (schema Schema) migrationsFS() fs.FS {
	return &templateFS{base: migrationsFS, data: schema}
}

// templateFS renders every regular file of base as a text/template over data.
type templateFS struct {
	base fs.FS
	data any
}

var _ fs.ReadDirFS = (*templateFS)(nil)

func (fsys *templateFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return fs.ReadDir(fsys.base, name)
}

func (fsys *templateFS) Open(name string) (fs.File, error) {
	file, err := fsys.base.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()

		return nil, err
	}

	if info.IsDir() {
		return file, nil
	}

	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", name, err)
	}

	tpl, err := template.New(name).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", name, err)
	}

	var rendered bytes.Buffer

	err = tpl.Execute(&rendered, fsys.data)
	if err != nil {
		return nil, fmt.Errorf("failed to render %q: %w", name, err)
	}

	return &renderedFile{Reader: bytes.NewReader(rendered.Bytes()), info: info}, nil
}

type renderedFile struct {
	*bytes.Reader
	info fs.FileInfo
}

func (file *renderedFile) Stat() (fs.FileInfo, error) {
	return file.info, nil
}

func (file *renderedFile) Close() error {
	return nil
}
