// Package schema decodes and validates decision tree documents.
//
// Tree sources publish a flat document in which question nodes and the reserved
// "endpoints" table share one mapping:
//
//	{
//	  "java_q1": {"question": "Do you enjoy building APIs?", "yes": "java_q2", "no": "END_FE"},
//	  "java_q2": {"question": "Do you like databases?", "yes": "END_BE"},
//	  "endpoints": {"END_BE": ["Backend Engineer", "API Developer"], "END_FE": ["Frontend Developer"]}
//	}
//
// ParseTree checks the document against TreeDocumentSchema and converts it once into a
// domain.DecisionTree, where branches are typed references (Continue, Reach or None).
// YAML documents are accepted as well; node order always follows the source.
package schema
