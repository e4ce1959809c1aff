package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"poetrydesk/internal/domain"

	"gopkg.in/yaml.v3"
)

// DatasetYAML represents the import file structure
type DatasetYAML struct {
	Poets   []PersonYAML `yaml:"poets,omitempty"`
	Critics []PersonYAML `yaml:"critics,omitempty"`
	Poems   []PoemYAML   `yaml:"poems,omitempty"`
}

// PersonYAML represents a poet or critic in YAML format
type PersonYAML struct {
	Phone       string `yaml:"phone"`
	FirstName   string `yaml:"first_name"`
	LastName    string `yaml:"last_name"`
	DateOfBirth string `yaml:"date_of_birth"`
}

// PoemYAML represents a poem in YAML format
type PoemYAML struct {
	Poet   string `yaml:"poet"`
	Critic string `yaml:"critic"`
	Text   string `yaml:"text"`
}

// Record is one imported entry. Err is set when the entry could not be
// converted; the rest of the dataset is still usable.
type Record[T any] struct {
	Index int // position within its section, from 0
	Value T
	Err   error
}

// Dataset is a converted import file, section by section
type Dataset struct {
	Poets   []Record[*domain.Person]
	Critics []Record[*domain.Person]
	Poems   []Record[*domain.Poem]
}

// Len returns the number of records across all sections
func (d *Dataset) Len() int {
	return len(d.Poets) + len(d.Critics) + len(d.Poems)
}

// LoadYAML loads a dataset from a YAML file
func LoadYAML(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return ParseYAML(data)
}

// DecodeYAML reads a dataset from r (used for HTTP uploads)
func DecodeYAML(r io.Reader) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML parses a dataset from YAML bytes. Unknown keys are rejected so
// a misspelled field does not import silently as empty.
func ParseYAML(data []byte) (*Dataset, error) {
	var yamlData DatasetYAML

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&yamlData); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return convertYAMLToDataset(&yamlData), nil
}

func convertYAMLToDataset(y *DatasetYAML) *Dataset {
	ds := &Dataset{}

	for i, p := range y.Poets {
		person, err := p.toPerson(domain.RolePoet)
		ds.Poets = append(ds.Poets, Record[*domain.Person]{Index: i, Value: person, Err: err})
	}

	for i, c := range y.Critics {
		person, err := c.toPerson(domain.RoleCritic)
		ds.Critics = append(ds.Critics, Record[*domain.Person]{Index: i, Value: person, Err: err})
	}

	for i, p := range y.Poems {
		ds.Poems = append(ds.Poems, Record[*domain.Poem]{
			Index: i,
			Value: domain.NewPoem(p.Poet, p.Critic, p.Text),
		})
	}

	return ds
}

func (p PersonYAML) toPerson(role domain.Role) (*domain.Person, error) {
	person := &domain.Person{
		PhoneNumber: p.Phone,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Role:        role,
	}
	if p.DateOfBirth == "" {
		// Left zero; validation reports it with the other fields
		return person, nil
	}

	dob, err := domain.ParseDate(p.DateOfBirth)
	if err != nil {
		return person, err
	}
	person.DateOfBirth = dob
	return person, nil
}
