package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Konsultn-Engineering/propmeta/reflection"
)

func newInspectCmd(a *app) *cobra.Command {
	var find string

	cmd := &cobra.Command{
		Use:   "inspect <model>...",
		Short: "Show the properties of one or more models",
		Long:  "Show every readable and writable property of the given models, its type, and the member backing it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for i, name := range args {
				r, err := a.reflectorFor(name)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				if find != "" {
					printFind(out, r, find)
					continue
				}
				printReflector(out, r, a.noColor)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&find, "find", "", "resolve a property name case-insensitively")
	return cmd
}

func printFind(w io.Writer, r *reflection.Reflector, name string) {
	canonical, ok := r.FindPropertyName(name)
	if !ok {
		fmt.Fprintf(w, "%s: no property matches %q\n", r.Type(), name)
		return
	}
	fmt.Fprintf(w, "%s: %s\n", r.Type(), canonical)
}

func printReflector(w io.Writer, r *reflection.Reflector, noColor bool) {
	header(w, r.Type().Name(), noColor)

	t := newTable(w, noColor, "PROPERTY", "READ", "WRITE", "TYPE", "ACCESSOR")
	for _, name := range propertyNames(r) {
		read, write := "-", "-"
		typeName := ""
		var accessor string

		if inv, err := r.GetGetInvoker(name); err == nil {
			read = "yes"
			getType, _ := r.GetGetterType(name)
			typeName = getType.Name()
			accessor = describeInvoker(inv)
		}
		if inv, err := r.GetSetInvoker(name); err == nil {
			write = "yes"
			if typeName == "" {
				setType, _ := r.GetSetterType(name)
				typeName = setType.Name()
			}
			if accessor == "" {
				accessor = describeInvoker(inv)
			} else {
				accessor += ", " + describeInvoker(inv)
			}
		}
		t.addRow(name, read, write, typeName, accessor)
	}
	t.render()

	ctor := "no"
	if r.HasDefaultConstructor() {
		ctor = "yes"
	}
	fmt.Fprintf(w, "%s, %s\n",
		quantity(len(r.GetGetablePropertyNames()), "property", "readable"),
		quantity(len(r.GetSetablePropertyNames()), "property", "writable"))
	fmt.Fprintf(w, "default constructor: %s\n", ctor)
	fmt.Fprintf(w, "fingerprint: %016x\n", r.Fingerprint())
}

// propertyNames lists readable properties, then write-only ones.
func propertyNames(r *reflection.Reflector) []string {
	names := r.GetGetablePropertyNames()
	for _, name := range r.GetSetablePropertyNames() {
		if !r.HasGetter(name) {
			names = append(names, name)
		}
	}
	return names
}

func describeInvoker(inv *reflection.Invoker) string {
	switch {
	case inv.IsAmbiguous():
		return "ambiguous"
	case inv.Method() != nil:
		return inv.Method().Name + "()"
	default:
		return "field " + inv.Field().Name
	}
}
