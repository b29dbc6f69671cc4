package main

import (
	"fmt"
)

// Run executes the classify command.
func (c *ClassifyCmd) Run(deps *Dependencies) error {
	classifier := deps.Classifier
	if classifier == nil {
		classifier = newClassifier(c.Keyword)
	}

	verdict := classifier.Classify(c.Title, c.Description)
	fmt.Fprintln(deps.Stdout, string(verdict))
	return nil
}
