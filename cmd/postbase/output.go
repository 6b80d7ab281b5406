package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type Output[T any] interface {
	Emit(T)
	EmitAll([]T)
	Done()
}

type output[T any] struct {
	w           io.Writer
	isSingle    bool
	hasPrevious bool
}

func (o *output[T]) EmitAll(vs []T) {
	for _, v := range vs {
		o.Emit(v)
	}
}

func (o *output[T]) Emit(v T) {
	indent := ""
	if !o.isSingle {
		indent = "  "
		if !o.hasPrevious {
			fmt.Fprint(o.w, "[\n")
		} else {
			fmt.Fprint(o.w, ",\n")
		}
	}

	formatted, _ := json.MarshalIndent(v, indent, "  ")
	fmt.Fprint(o.w, indent+string(formatted))
	o.hasPrevious = true
}

func (o *output[T]) Done() {
	if !o.isSingle {
		if o.hasPrevious {
			fmt.Fprint(o.w, "\n]\n")
		} else {
			fmt.Fprintln(o.w, "[]")
		}
		return
	}

	if o.hasPrevious {
		fmt.Fprintln(o.w)
	}
}

func OutputSingle[T any](cmd *cobra.Command) Output[T] {
	return &output[T]{
		w:        cmd.OutOrStdout(),
		isSingle: true,
	}
}

func OutputMultiple[T any](cmd *cobra.Command) Output[T] {
	return &output[T]{
		w:        cmd.OutOrStdout(),
		isSingle: false,
	}
}

// Status lines go to stderr so stdout stays parseable JSON.

func statusOk(cmd *cobra.Command, format string, args ...any) {
	color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}

func statusWarn(cmd *cobra.Command, format string, args ...any) {
	color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}

func humanSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}
