package validator

import (
	"fmt"
	"strings"

	"github.com/studorg/membership-service/internal/domain/common/errorz"
	"github.com/studorg/membership-service/internal/domain/dto"
)

// Application checks the required-field set of a payload before anything is
// written. The set depends on the application type; every missing field is
// named in the returned error.
func Application(p dto.ApplicationPayload) error {
	var missing []string

	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}

	switch v := p.(type) {
	case dto.ClubAdmissionApplication:
		check("why_join", v.WhyJoin)
		check("relevant_experience", v.RelevantExperience)
	case dto.BoardApplication:
		check("position", v.Position)
		check("why_join", v.WhyJoin)
		check("relevant_experience", v.RelevantExperience)
		check("contribution", v.Contribution)
		check("vision", v.Vision)
	case dto.ClassApplication:
		check("class_id", v.ClassID)
		check("role", v.Role)
		check("why_join", v.WhyJoin)
		check("relevant_experience", v.RelevantExperience)
	case dto.ProjectApplication:
		check("project_id", v.ProjectID)
		check("role", v.Role)
		check("why_join", v.WhyJoin)
		check("relevant_experience", v.RelevantExperience)
		check("project_detail", v.ProjectDetail)
	default:
		return fmt.Errorf("%w: unsupported application payload", errorz.ValidationFailed)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", errorz.ValidationFailed, strings.Join(missing, ", "))
	}
	return nil
}
