// Package instance reads knapsack instances and renders solutions.
//
// Text format (Parse):
//
//	n capacity
//	value weight
//	value weight
//	...
//
// Integers are separated by whitespace, blank lines are ignored and the
// number of item lines must equal n.
//
// Document format (LoadDocument) is YAML, or JSON as a YAML subset:
//
//	capacity: 9
//	items:
//	  - {name: tent, value: 5, weight: 4}
//	  - {name: stove, value: 6, weight: 5}
//
// Format writes a solution as two lines: "<value> <optimal>" followed by one
// 0/1 flag per item in input order.
package instance
