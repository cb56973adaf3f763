package processor

import (
	"strings"

	"github.com/nguyentantai21042004/newsreel/internal/faults"
)

// Role is one stage slot of the pipeline.
type Role string

const (
	RoleExtract     Role = "extract"
	RoleSpeech      Role = "speech"
	RoleVoiceEffect Role = "voice_effect"
	RoleSubtitle    Role = "subtitle"
	RoleVisual      Role = "visual"
	RoleMux         Role = "mux"
)

// Plan is the resolved set of roles a run goes through. It is computed once
// in New from the configured stages.
type Plan struct {
	roles []Role
}

func resolvePlan(o Options) Plan {
	roles := []Role{RoleExtract}
	if o.Synthesizer != nil {
		roles = append(roles, RoleSpeech)
		if o.VoiceEffect != nil {
			roles = append(roles, RoleVoiceEffect)
		}
		// captions are timed from speech, never invented
		if o.Subtitles != nil {
			roles = append(roles, RoleSubtitle)
		}
	}
	if o.Visual != nil {
		roles = append(roles, RoleVisual)
	}
	if o.Muxer != nil {
		roles = append(roles, RoleMux)
	}
	return Plan{roles: roles}
}

// Has reports whether the plan includes role.
func (p Plan) Has(role Role) bool {
	for _, r := range p.roles {
		if r == role {
			return true
		}
	}
	return false
}

// Roles returns the roles in execution order.
func (p Plan) Roles() []Role {
	return append([]Role(nil), p.roles...)
}

func (p Plan) String() string {
	names := make([]string, len(p.roles))
	for i, r := range p.roles {
		names[i] = string(r)
	}
	return strings.Join(names, " -> ")
}

// validate rejects plans that can never reach StateComposed, with the error
// the failing stage would report.
func (p Plan) validate() error {
	switch {
	case !p.Has(RoleVisual):
		return faults.Wrap(faults.ErrVisual, "plan", "validate", "no visual composer configured", faults.ErrNoProvider)
	case !p.Has(RoleSpeech):
		return faults.Wrap(faults.ErrMux, "plan", "validate", "final mux needs a dubbing but no synthesizer is configured", faults.ErrPrecondition)
	case !p.Has(RoleMux):
		return faults.Wrap(faults.ErrMux, "plan", "validate", "no final muxer configured", faults.ErrNoProvider)
	}
	return nil
}
