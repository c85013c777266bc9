package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/and161185/lexinote/internal/convert"
	"github.com/and161185/lexinote/internal/model"
)

func (a *app) cmdProviders(ctx context.Context) error {
	c, _, err := a.client()
	if err != nil {
		return err
	}
	ps, err := c.Providers(ctx)
	if err != nil {
		return err
	}
	for i, p := range ps {
		limit := "unlimited"
		if p.DailyLimit > 0 {
			limit = strconv.Itoa(p.DailyLimit) + "/day"
		}
		fmt.Fprintf(a.out, "%d\t%s\t%s\n", i, p.Name, limit)
	}
	return nil
}

func (a *app) cmdProvider(args []string) error {
	fs := flag.NewFlagSet("provider", flag.ContinueOnError)
	idx := fs.Int("i", -1, "provider index")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ts, err := a.translation()
	if err != nil {
		return err
	}
	switch {
	case *idx >= 0:
		ts.SetProviderIndex(*idx)
	case fs.NArg() == 1:
		ts.SetProvider(fs.Arg(0))
	default:
		return errors.New("need <name> or -i <index>")
	}
	st := ts.State()
	fmt.Fprintf(a.out, "provider=%q index=%d\n", st.Provider, st.ProviderIndex)
	return nil
}

func (a *app) cmdLang(args []string) error {
	if len(args) != 2 {
		return errors.New("need <from> <to>")
	}
	ts, err := a.translation()
	if err != nil {
		return err
	}
	if err := ts.SetLanguages(model.Lang(args[0]), model.Lang(args[1])); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s -> %s\n", args[0], args[1])
	return nil
}

func (a *app) cmdSwap() error {
	ts, err := a.translation()
	if err != nil {
		return err
	}
	ts.SwapLanguages()
	st := ts.State()
	fmt.Fprintf(a.out, "%s -> %s\n", st.SourceLang, st.TargetLang)
	if st.SourceText != "" {
		fmt.Fprintf(a.out, "source: %s\n", st.SourceText)
	}
	return nil
}

func (a *app) cmdTranslate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	from := fs.String("from", "", "source language")
	to := fs.String("to", "", "target language")
	name := fs.String("p", "", "provider name")
	idx := fs.Int("i", -1, "provider index")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ts, err := a.translation()
	if err != nil {
		return err
	}
	if *from != "" || *to != "" {
		st := ts.State()
		f, t := st.SourceLang, st.TargetLang
		if *from != "" {
			f = model.Lang(*from)
		}
		if *to != "" {
			t = model.Lang(*to)
		}
		if err := ts.SetLanguages(f, t); err != nil {
			return err
		}
	}
	switch {
	case *name != "":
		ts.SetProvider(*name)
	case *idx >= 0:
		ts.SetProviderIndex(*idx)
	}
	if text := strings.Join(fs.Args(), " "); text != "" {
		ts.SetSourceText(text)
	}

	tr, err := ts.Translate(ctx)
	if err != nil {
		return err
	}
	printJSON(a.out, convert.ToTranslationDTO(tr))
	return nil
}

func (a *app) cmdHistory(args []string) error {
	ts, err := a.translation()
	if err != nil {
		return err
	}
	if len(args) > 0 {
		switch args[0] {
		case "rm":
			if len(args) != 2 {
				return errors.New("need history rm <id>")
			}
			ts.RemoveFromHistory(args[1])
			return nil
		case "clear":
			ts.ClearHistory()
			return nil
		default:
			return fmt.Errorf("unknown history action %q", args[0])
		}
	}
	for _, h := range ts.State().History {
		fmt.Fprintf(a.out, "%s\t%s->%s\t%s\t%s\n", h.ID, h.SourceLang, h.TargetLang, h.SourceText, h.TranslatedText)
	}
	return nil
}

func (a *app) cmdClear() error {
	ts, err := a.translation()
	if err != nil {
		return err
	}
	ts.ClearAll()
	return nil
}
