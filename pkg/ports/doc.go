/*
Package ports defines the driven ports (interfaces) of the careerflow assessment.

These interfaces decouple the flow controller from its collaborators, allowing the same
batcher, walker and orchestrator to run against the remote backend, a file catalog or
in-memory fixtures.

# Key Interfaces

  - SessionStore: persists Sessions (stage flags and results).
  - DistributedLocker: serializes access to one session across replicas.
  - QuestionBank, AnswerScorer: the paginated soft-skills questionnaire.
  - DomainMatcher, TreeSource: the ranked technical domains and their decision trees.
  - SoftSkillsReporter, DocumentIntake: result summary and resume/job-description intake.
*/
package ports
