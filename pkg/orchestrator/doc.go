/*
Package orchestrator runs the technical stage of the assessment.

It asks the domain matcher for the session's ranked domains, keeps the top N, and walks
each domain's decision tree in order with a single walker that is reset between domains.
Every domain ends with exactly one recorded outcome, including "Undetermined" when the
tree could not be walked. Once the last outcome is in, the results are handed to the
result sink and the completion callback.
*/
package orchestrator
