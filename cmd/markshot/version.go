package main

import "fmt"

type versionCmd struct{ r *root }

func (v *versionCmd) Run() error {
	program := "markshot"
	if v.r != nil && v.r.program != "" {
		program = v.r.program
	}
	fmt.Printf("%s version %s\n", program, version)
	if commit != "" {
		fmt.Printf("commit %s\n", commit)
	}
	if date != "" {
		fmt.Printf("built %s\n", date)
	}
	return nil
}
