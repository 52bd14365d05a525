// Package project locates the root of the project a report is generated for.
//
// A project root is the nearest directory, walking upward, that contains a
// package manifest. The report renderer runs a RootCheck before producing
// output so that a misconfigured working directory fails loudly.
package project
