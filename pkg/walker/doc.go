/*
Package walker walks a technical domain's yes/no decision tree.

A Walker starts at the detected root (see DetectRoot), follows the branch of each
answer, and ends in a terminal Outcome: the roles of the reached endpoint joined with
", ", or "Undetermined" for dead ends, broken references and empty endpoints. Back undoes
the last answer. Malformed graphs never panic; they degrade to "Undetermined".
*/
package walker
