package domain

// Stage identifies one sequential phase of the assessment.
type Stage string

const (
	StageResume         Stage = "resume"
	StageJobDescription Stage = "jd"
	StageSoftSkills     Stage = "soft_skills"
	StageTechnical      Stage = "technical"
	StageResult         Stage = "result"
)

// Stages lists every stage in canonical order.
var Stages = []Stage{
	StageResume,
	StageJobDescription,
	StageSoftSkills,
	StageTechnical,
	StageResult,
}

// Default page paths of each stage.
const (
	PathResume         = "/resume"
	PathJobDescription = "/jd"
	PathSoftSkills     = "/soft-skills"
	PathTechnical      = "/technical-domain"
	PathResult         = "/result"
	PathLogin          = "/login"
)

// Path returns the default page path of the stage.
func (s Stage) Path() string {
	switch s {
	case StageResume:
		return PathResume
	case StageJobDescription:
		return PathJobDescription
	case StageSoftSkills:
		return PathSoftSkills
	case StageTechnical:
		return PathTechnical
	case StageResult:
		return PathResult
	}
	return ""
}

// Index returns the position of the stage in the canonical order, or -1.
func (s Stage) Index() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	return s.Index() >= 0
}
