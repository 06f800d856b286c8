package filter

// ToAdvanced lifts basic filters into the full model. Fields the basic form
// cannot express take their defaults.
func ToAdvanced(b Basic) State {
	s := DefaultState()

	s.Query = b.Query
	s.ProfileType = b.ProfileType
	s.Location = b.Location
	s.Specialties = cloneStrings(b.Specialties)
	s.MinRating = b.MinRating
	s.MaxDistance = b.MaxDistance
	s.PriceRange = b.PriceRange
	s.ExperienceRange = b.ExperienceRange
	s.Availability = b.Availability
	s.VerifiedOnly = b.VerifiedOnly
	s.HasPortfolio = b.HasPortfolio
	s.SortBy = b.SortBy
	s.SortOrder = b.SortOrder
	s.Page = b.Page
	s.PageSize = b.PageSize

	return s
}

// ToBasic projects the full model onto the basic form. Advanced-only fields
// are dropped and custom availability collapses to all.
func ToBasic(s State) Basic {
	availability := s.Availability
	if availability == AvailabilityCustom {
		availability = AvailabilityAll
	}

	return Basic{
		Query:           s.Query,
		ProfileType:     s.ProfileType,
		Location:        s.Location,
		Specialties:     cloneStrings(s.Specialties),
		MinRating:       s.MinRating,
		MaxDistance:     s.MaxDistance,
		PriceRange:      s.PriceRange,
		ExperienceRange: s.ExperienceRange,
		Availability:    availability,
		VerifiedOnly:    s.VerifiedOnly,
		HasPortfolio:    s.HasPortfolio,
		SortBy:          s.SortBy,
		SortOrder:       s.SortOrder,
		Page:            s.Page,
		PageSize:        s.PageSize,
	}
}

// Switch converts f into the requested mode
func Switch(f Filters, mode Mode) Filters {
	switch v := f.(type) {
	case Basic:
		if mode == ModeAdvanced {
			return ToAdvanced(v)
		}
		return v
	case State:
		if mode == ModeBasic {
			return ToBasic(v)
		}
		return v
	}
	return Default(mode)
}

// Advanced returns f as a full State regardless of its mode
func Advanced(f Filters) State {
	switch v := f.(type) {
	case Basic:
		return ToAdvanced(v)
	case State:
		return v
	}
	return DefaultState()
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
