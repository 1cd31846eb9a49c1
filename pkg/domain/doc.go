/*
Package domain contains the core domain models of the careerflow assessment.

It defines the entities the flow controller reasons about: the Session and its
stage-completion flags, the soft-skills Question and Answer, the DecisionTree walked per
technical domain, and the per-domain results handed to the result stage. The package is
kept pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Session: the user's assessment session and its monotonic StageFlags.
  - Stage: one sequential phase of the assessment, in canonical order.
  - DecisionTree: yes/no QuestionNodes plus an endpoint table of recommended roles.
  - WalkState: the position of one walk (current node + history stack).
  - Results: the ordered mapping domain -> outcome produced by the orchestrator.
*/
package domain
