package document

import (
	"errors"
	"fmt"
)

// Validate checks the structural invariants of a transform result: header
// levels within 2..4, list items restricted to Text or Paragraph, and no
// link run with an empty visible value. All violations are joined.
func Validate(blocks []Block) error {
	var errs []error
	for i, b := range blocks {
		errs = append(errs, validateBlock(fmt.Sprintf("[%d]", i), b, false)...)
	}
	return errors.Join(errs...)
}

func validateBlock(path string, b Block, inList bool) []error {
	var errs []error
	switch v := b.(type) {
	case Header:
		if v.Level < 2 || v.Level > 4 {
			errs = append(errs, fmt.Errorf("%s: header level %d out of range", path, v.Level))
		}
	case Paragraph:
		for j, r := range v.Runs {
			if err := validateRun(fmt.Sprintf("%s.runs[%d]", path, j), r); err != nil {
				errs = append(errs, err)
			}
		}
	case Text:
		if err := validateRun(path+".run", v.Run); err != nil {
			errs = append(errs, err)
		}
	case UnorderedList:
		errs = append(errs, validateItems(path, v.Items)...)
	case OrderedList:
		errs = append(errs, validateItems(path, v.Items)...)
	case nil:
		errs = append(errs, fmt.Errorf("%s: nil block", path))
	}
	if inList {
		switch b.(type) {
		case Text, Paragraph:
		default:
			errs = append(errs, fmt.Errorf("%s: list item must be text or paragraph, got %T", path, b))
		}
	}
	return errs
}

func validateItems(path string, items []Block) []error {
	var errs []error
	for j, item := range items {
		errs = append(errs, validateBlock(fmt.Sprintf("%s.items[%d]", path, j), item, true)...)
	}
	return errs
}

func validateRun(path string, r Run) error {
	if r.Kind == KindLink && r.Text == "" {
		return fmt.Errorf("%s: link %q has empty value", path, r.URL)
	}
	if r.Kind > KindStrong {
		return fmt.Errorf("%s: unknown run kind %d", path, r.Kind)
	}
	return nil
}
