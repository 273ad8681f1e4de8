package schema

// Validate checks a raw candidate record against the field table. The
// routine is generic over the table: required-presence, null policy, and
// kind checks all come from the Field entries, never from per-field code.
// Failures return a *ValidationError for a single offending field or a
// *MultiValidationError when several fields fail.
func (s *Spec) Validate(record map[string]any) error {
	var errs []*ValidationError
	for _, name := range s.Order {
		f := s.Fields[name]
		value, present := record[name]

		if !present {
			if f.Required {
				errs = append(errs, NewRequiredFieldError(s.Name, name))
			}
			continue
		}

		if value == nil {
			if f.Required {
				errs = append(errs, &ValidationError{
					Schema:  s.Name,
					Field:   name,
					Message: "required field cannot be null",
				})
			} else if !f.Nullable {
				errs = append(errs, &ValidationError{
					Schema:  s.Name,
					Field:   name,
					Message: "field is not nullable",
				})
			}
			continue
		}

		if err := s.checkKind(name, f, value); err != nil {
			errs = append(errs, err)
		}
	}

	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return &MultiValidationError{Errors: errs}
	}
}

// checkKind validates a present, non-null value against its kind tag.
func (s *Spec) checkKind(name string, f Field, value any) *ValidationError {
	switch f.Kind {
	case KindString:
		if _, ok := value.(string); !ok {
			return NewKindMismatchError(s.Name, name, KindString, value)
		}
	case KindRecord:
		if _, ok := value.(map[string]any); !ok {
			return NewKindMismatchError(s.Name, name, KindRecord, value)
		}
	case KindTimestamp:
		if _, err := NormalizeTimestamp(value); err != nil {
			return &ValidationError{
				Schema:   s.Name,
				Field:    name,
				Message:  err.Error(),
				Expected: string(KindTimestamp),
			}
		}
	case KindURIRef:
		str, ok := value.(string)
		if !ok {
			return NewKindMismatchError(s.Name, name, KindURIRef, value)
		}
		if _, err := EncodeURIRef(str); err != nil {
			return &ValidationError{
				Schema:   s.Name,
				Field:    name,
				Message:  err.Error(),
				Expected: string(KindURIRef),
			}
		}
	default:
		return &ValidationError{
			Schema:  s.Name,
			Field:   name,
			Message: "unknown field kind: " + string(f.Kind),
		}
	}
	return nil
}
