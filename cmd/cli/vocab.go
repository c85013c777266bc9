package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/and161185/lexinote/internal/convert"
	"github.com/and161185/lexinote/internal/model"
	"github.com/and161185/lexinote/internal/session"
)

func (a *app) printWords(ws []model.Word) {
	for _, w := range ws {
		line := fmt.Sprintf("%s\t%s\t%s", w.ID, w.Word, w.TranslatedText)
		if w.Notes != "" {
			line += "\t# " + w.Notes
		}
		fmt.Fprintln(a.out, line)
	}
}

func (a *app) cmdVocab(ctx context.Context) error {
	vs, err := a.vocab(ctx)
	if err != nil {
		return err
	}
	st := vs.State()
	fmt.Fprintf(a.out, "user=%s category=%s sort=%s %s page=%d\n",
		st.UserID, st.SelectedCategory, st.SortField, st.SortDir, st.PageSize)
	return nil
}

func (a *app) cmdCategories(ctx context.Context) error {
	vs, err := a.vocab(ctx)
	if err != nil {
		return err
	}
	if err := vs.LoadCategories(ctx); err != nil {
		return err
	}
	st := vs.State()
	for _, c := range st.Categories {
		mark := " "
		if c.ID == st.SelectedCategory {
			mark = "*"
		}
		fmt.Fprintf(a.out, "%s %s\t%s\n", mark, c.ID, c.Name)
	}
	return nil
}

func (a *app) cmdAddCategory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-cat", flag.ContinueOnError)
	name := fs.String("name", "", "category name")
	desc := fs.String("desc", "", "description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	vs, err := a.vocab(ctx)
	if err != nil {
		return err
	}
	id, err := vs.AddCategory(ctx, *name, *desc)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, id)
	return nil
}

func (a *app) cmdRenameCategory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rename-cat", flag.ContinueOnError)
	id := fs.String("id", "", "category id")
	name := fs.String("name", "", "new name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("need -id")
	}
	vs, err := a.vocab(ctx)
	if err != nil {
		return err
	}
	return vs.UpdateCategory(ctx, *id, *name)
}

func (a *app) cmdDeleteCategory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rm-cat", flag.ContinueOnError)
	id := fs.String("id", "", "category id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("need -id")
	}
	vs, err := a.vocab(ctx)
	if err != nil {
		return err
	}
	if err := vs.DeleteCategory(ctx, *id); err != nil {
		if session.IsCategoryNotEmpty(err) {
			return fmt.Errorf("category %q still has words; move or delete them first", *id)
		}
		return err
	}
	fmt.Fprintf(a.out, "deleted; selected=%s\n", vs.State().SelectedCategory)
	return nil
}

func (a *app) cmdSelect(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("need <category id>")
	}
	vs, err := a.vocab(ctx)
	if err != nil {
		return err
	}
	if err := vs.SelectCategory(ctx, args[0]); err != nil {
		return err
	}
	st := vs.State()
	a.printWords(st.Words)
	fmt.Fprintf(a.out, "-- %d of %d\n", len(st.Words), st.Total)
	return nil
}

func (a *app) cmdWords(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("words", flag.ContinueOnError)
	n := fs.Int("n", 0, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}
	vs, err := a.vocab(ctx)
	if err != nil {
		return err
	}
	if *n > 0 {
		vs.SetPageSize(*n)
	}
	if err := vs.LoadWords(ctx); err != nil {
		return err
	}
	st := vs.State()
	a.printWords(st.Words)
	a.printFooter(st)
	return nil
}

func (a *app) printFooter(st session.VocabState) {
	more := ""
	if st.HasMore {
		more = " (lexi more)"
	}
	fmt.Fprintf(a.out, "-- total %d%s\n", st.Total, more)
}

func (a *app) cmdMore(ctx context.Context) error {
	vs, err := a.vocab(ctx)
	if err != nil {
		return err
	}
	before := len(vs.State().Words)
	loaded, err := vs.ScrollLoadWords(ctx)
	if err != nil {
		return err
	}
	st := vs.State()
	if !loaded {
		fmt.Fprintln(a.out, "-- no more words")
		return nil
	}
	a.printWords(st.Words[before:])
	a.printFooter(st)
	return nil
}

func (a *app) cmdSort(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("need <createdAt|word> <asc|desc>")
	}
	vs, err := a.vocab(ctx)
	if err != nil {
		return err
	}
	if err := vs.SetSort(ctx, model.SortField(args[0]), model.SortDirection(args[1])); err != nil {
		return err
	}
	st := vs.State()
	a.printWords(st.Words)
	a.printFooter(st)
	return nil
}

func (a *app) cmdSearch(ctx context.Context, args []string) error {
	vs, err := a.vocab(ctx)
	if err != nil {
		return err
	}
	if err := vs.SetSearch(ctx, strings.Join(args, " ")); err != nil {
		return err
	}
	st := vs.State()
	a.printWords(st.Words)
	a.printFooter(st)
	return nil
}

// wordFromHistory builds a vocabulary entry from the latest translation.
func wordFromHistory(hist []model.Translation) (model.Word, error) {
	if len(hist) == 0 {
		return model.Word{}, errors.New("no translation in history; pass -word and -tr")
	}
	t := hist[0]
	w := model.Word{
		Word:           t.SourceText,
		TranslatedText: t.TranslatedText,
		SourceLang:     t.SourceLang,
		TargetLang:     t.TargetLang,
	}
	if t.Detailed != nil && len(t.Detailed.Words) > 0 {
		d := t.Detailed.Words[0]
		w.Phonetic = d.Phonetic
		w.PhoneticAudio = d.PhoneticAudio
		w.PartOfSpeech = d.PartOfSpeech
		w.Definitions = d.Definitions
		w.Examples = d.Examples
		w.Synonyms = d.Synonyms
	}
	return w, nil
}

func (a *app) cmdAddWord(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-word", flag.ContinueOnError)
	cat := fs.String("cat", "", "category id (defaults to selected)")
	notes := fs.String("notes", "", "notes")
	word := fs.String("word", "", "word text")
	tr := fs.String("tr", "", "translation")
	from := fs.String("from", string(model.LangEN), "source language")
	to := fs.String("to", string(model.LangZH), "target language")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var w model.Word
	if *word != "" {
		w = model.Word{Word: *word, TranslatedText: *tr, SourceLang: model.Lang(*from), TargetLang: model.Lang(*to)}
	} else {
		ts, err := a.translation()
		if err != nil {
			return err
		}
		if w, err = wordFromHistory(ts.State().History); err != nil {
			return err
		}
	}
	w.Category = *cat
	w.Notes = *notes

	vs, err := a.vocab(ctx)
	if err != nil {
		return err
	}
	id, err := vs.AddWord(ctx, w)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, id)
	return nil
}

func (a *app) cmdGet(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("need <word>")
	}
	vs, err := a.vocab(ctx)
	if err != nil {
		return err
	}
	w, err := vs.GetWord(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if w == nil {
		fmt.Fprintln(a.out, "not saved")
		return nil
	}
	printJSON(a.out, convert.ToWordDTO(*w))
	return nil
}

func (a *app) cmdNotes(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("notes", flag.ContinueOnError)
	id := fs.String("id", "", "word id")
	text := fs.String("text", "", "notes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("need -id")
	}
	vs, err := a.vocab(ctx)
	if err != nil {
		return err
	}
	return vs.UpdateWordNotes(ctx, *id, *text)
}

func (a *app) cmdDeleteWord(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rm-word", flag.ContinueOnError)
	id := fs.String("id", "", "word id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("need -id")
	}
	vs, err := a.vocab(ctx)
	if err != nil {
		return err
	}
	return vs.DeleteWord(ctx, *id)
}

func (a *app) cmdCount(ctx context.Context) error {
	vs, err := a.vocab(ctx)
	if err != nil {
		return err
	}
	n, err := vs.CountWords(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d words in %s\n", n, vs.State().SelectedCategory)
	return nil
}
