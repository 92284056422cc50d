package dto

import "github.com/studorg/membership-service/internal/domain/entity"

// Provision is the side effect of accepting an application: at most one of
// role upsert, class enrollment or project membership. A rejected decision
// carries an empty Provision.
type Provision struct {
	Role       *entity.UserRole
	Enrollment *entity.ClassEnrollment
	Membership *entity.ProjectMember
}
