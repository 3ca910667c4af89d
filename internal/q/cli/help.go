package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
)

func writeHelp(w io.Writer, root, cmd *Command) {
	full := commandDisplayName(root, cmd)
	if cmd.Short != "" {
		fmt.Fprintf(w, "%s - %s\n", full, cmd.Short)
	} else {
		fmt.Fprintf(w, "%s\n", full)
	}

	if cmd.Long != "" {
		fmt.Fprintf(w, "\n%s\n", strings.TrimRight(cmd.Long, "\n"))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %s\n", usageLine(root, cmd))

	if len(cmd.children) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Commands:")
		children := cmd.Commands()
		sort.Slice(children, func(i, j int) bool { return children[i].Name < children[j].Name })
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, child := range children {
			fmt.Fprintf(tw, "  %s\t%s\n", child.Name, child.Short)
		}
		tw.Flush()
	}

	if defs := cmd.activeFlags().sorted(); len(defs) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Flags:")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, def := range defs {
			fmt.Fprintf(tw, "  %s\t%s\n", flagNames(def), strings.TrimSpace(def.usage))
		}
		tw.Flush()
	}

	if cmd.Example != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Example:")
		for _, line := range strings.Split(strings.TrimRight(cmd.Example, "\n"), "\n") {
			if line == "" {
				fmt.Fprintln(w)
				continue
			}
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

func commandDisplayName(root, cmd *Command) string {
	parts := []string{root.Name}
	if cmd != root {
		for _, node := range cmd.pathFromRoot()[1:] {
			parts = append(parts, node.Name)
		}
	}
	return strings.Join(parts, " ")
}

func usageLine(root, cmd *Command) string {
	segments := []string{commandDisplayName(root, cmd)}
	if len(cmd.activeFlags().byLong) > 0 {
		segments = append(segments, "[flags]")
	}
	if len(cmd.children) > 0 {
		if cmd.Run == nil {
			segments = append(segments, "<command>")
		} else {
			segments = append(segments, "[command]")
		}
	}
	if cmd.Run != nil {
		if cmd.Use != "" {
			segments = append(segments, cmd.Use)
		} else {
			segments = append(segments, "[args]")
		}
	}
	return strings.Join(segments, " ")
}

// flagNames renders the left column of a flag's help line, ex: "-w, --write" or "    --arg <string>...".
func flagNames(def *flagDef) string {
	var b strings.Builder
	if def.shorthand != 0 {
		fmt.Fprintf(&b, "-%c, --%s", def.shorthand, def.name)
	} else {
		fmt.Fprintf(&b, "    --%s", def.name)
	}
	if kind := def.value.kind(); kind != "" {
		fmt.Fprintf(&b, " <%s>", kind)
	}
	if def.repeated {
		b.WriteString("...")
	}
	return b.String()
}
