/*
Package remote is the HTTP client of the assessment backend.

The backend owns resume/JD extraction, soft-skill scoring and domain matching; Client
exposes those endpoints as the careerflow ports. The session ID is always passed
explicitly and sent as the session_id query parameter.
*/
package remote
