// Package config reads the application-context file a container is
// bootstrapped from.
//
//	version: "1.0"
//	scan: github.com/xraph/beans/examples/bank
//	beans:
//	  - id: auditedTransfers
//	    type: github.com/xraph/beans/examples/bank.TransferServiceImpl
//	    properties:
//	      - name: accountDao
//	        ref: accountDao
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/xraph/beans"
	"github.com/xraph/go-utils/errs"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

//go:embed schema/context.schema.json
var schemaBytes []byte

// SupportedVersions is the range of file versions this package reads.
// A file without a version is read as the current one.
const SupportedVersions = ">= 1.0.0, < 2.0.0"

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// File is the on-disk form of an application context.
type File struct {
	Version string                `yaml:"version,omitempty"`
	Scan    string                `yaml:"scan"`
	Beans   []beans.BeanDefinition `yaml:"beans,omitempty"`
}

// Config converts the file into the container configuration.
func (f File) Config() beans.Config {
	return beans.Config{
		ScanPath: f.Scan,
		Beans:    f.Beans,
	}
}

// Issue is a single schema violation.
type Issue struct {
	Path    string // instance location, e.g. "/beans/0/type"
	Message string
	Keyword string // failing schema keyword, e.g. "required"
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// getSchema compiles the embedded JSON schema once and returns it.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("context.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("context.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Validate checks raw YAML against the context schema. The error return is
// for unparsable input; schema violations are returned as issues.
func Validate(data []byte) ([]Issue, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, err
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return nil, nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}

	var issues []Issue
	collectIssues(ve, &issues)
	if len(issues) == 0 {
		issues = append(issues, Issue{Message: ve.Error()})
	}

	return issues, nil
}

// collectIssues walks the error tree and keeps the leaf errors.
func collectIssues(ve *jsonschema.ValidationError, issues *[]Issue) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectIssues(cause, issues)
		}
		return
	}

	if ve.ErrorKind == nil {
		return
	}

	keyword := ""
	if kw := ve.ErrorKind.KeywordPath(); len(kw) > 0 {
		keyword = kw[len(kw)-1]
	}
	if keyword == "" || keyword == "$ref" {
		return
	}

	path := ""
	if len(ve.InstanceLocation) > 0 {
		path = "/" + strings.Join(ve.InstanceLocation, "/")
	}

	*issues = append(*issues, Issue{
		Path:    path,
		Message: ve.ErrorKind.LocalizedString(printer),
		Keyword: keyword,
	})
}

// CheckVersion reports whether a file version lies in SupportedVersions.
// A leading "v" is tolerated.
func CheckVersion(version string) error {
	if version == "" {
		return nil
	}

	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return invalidConfig(fmt.Sprintf("version %q is not a semantic version", version), err)
	}

	supported, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return err
	}

	if !supported.Check(v) {
		return invalidConfig(fmt.Sprintf("version %s is not supported (want %s)", v, SupportedVersions), nil).
			WithContext("version", v.String()).(*errs.Error)
	}

	return nil
}

// Parse validates and decodes an application context.
func Parse(data []byte) (File, error) {
	issues, err := Validate(data)
	if err != nil {
		return File{}, invalidConfig("unreadable configuration", err)
	}

	if len(issues) > 0 {
		msgs := make([]string, 0, len(issues))
		for _, issue := range issues {
			msgs = append(msgs, issue.String())
		}

		return File{}, invalidConfig(strings.Join(msgs, "; "), nil).
			WithContext("issues", issues).(*errs.Error)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, invalidConfig("unreadable configuration", err)
	}

	if err := CheckVersion(f.Version); err != nil {
		return File{}, err
	}

	return f, nil
}

// Load reads and parses the application context at path.
func Load(path string) (beans.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return beans.Config{}, invalidConfig(fmt.Sprintf("reading %s", path), err).
			WithContext("path", path).(*errs.Error)
	}

	f, err := Parse(data)
	if err != nil {
		return beans.Config{}, err
	}

	return f.Config(), nil
}

func invalidConfig(msg string, cause error) *errs.Error {
	return errs.NewError(beans.CodeInvalidConfig, msg, cause)
}
