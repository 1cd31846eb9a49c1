/*
Package loam serves catalog content from a read-only Loam document repository.

Documents may be Markdown with frontmatter, JSON or YAML. Only their metadata is read:

	questions   questions: [{id, text, skill}]
	domains     domains: [{domain, score}], best first
	trees/<d>   nodes: [{id, question, yes, no}], endpoints: {END_X: [roles]}

Tree documents are looked up by domain name, then by its file.Slug form. Node order
follows the nodes list, which keeps root detection stable.
*/
package loam
