/*
Package file implements careerflow ports on a file system (via afero).

Store persists sessions as JSON files, written atomically. Catalog serves questions,
the domain ranking and decision trees from a directory, which lets the whole assessment
run offline (see "careerflow assess").
*/
package file
