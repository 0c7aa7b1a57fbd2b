package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/matheus3301/frigo/internal/api"
	"github.com/matheus3301/frigo/internal/format"
	"github.com/matheus3301/frigo/internal/store"
)

type field struct {
	label, value string
}

// shower fetches one record by id and returns it with its printable fields.
type shower func(ctx context.Context, c *api.Client, id api.ID) (any, []field, error)

var showers = map[string]shower{
	"client": func(ctx context.Context, c *api.Client, id api.ID) (any, []field, error) {
		r, err := c.ClientByID(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		return r, []field{
			{"Name", r.Nome},
			{"Reference", r.Referencia},
			{"Address", r.Endereco},
			{"Phone", r.Telefone},
			{"E-mail", r.Email},
			{"Since", format.DateBR(r.CreatedAt)},
		}, nil
	},
	"product": func(ctx context.Context, c *api.Client, id api.ID) (any, []field, error) {
		r, err := c.ProductByID(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		return r, []field{
			{"Name", r.Nome},
			{"Description", r.Descricao},
			{"Cash", format.BRL(r.PrecoAVista)},
			{"Credit", format.BRL(r.PrecoAPrazo)},
		}, nil
	},
	"purchase": func(ctx context.Context, c *api.Client, id api.ID) (any, []field, error) {
		r, err := c.PurchaseByID(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		return r, []field{
			{"Date", format.DateBR(r.DataDaCompra)},
			{"Client", r.ClientName()},
			{"Description", r.Descricao},
			{"Kind", r.TipoLabel()},
			{"Due", format.DateBR(r.DataVencimento)},
			{"Paid", strconv.FormatBool(r.Paid())},
			{"Total", format.BRL(r.Total)},
		}, nil
	},
	"reminder": func(ctx context.Context, c *api.Client, id api.ID) (any, []field, error) {
		r, err := c.ReminderByID(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		return r, []field{
			{"Date", format.DateBR(r.DataCadastro)},
			{"Description", r.Descricao},
			{"Notified", strconv.FormatBool(r.Notification != 0)},
		}, nil
	},
}

func showNames() []string {
	names := make([]string, 0, len(showers))
	for n := range showers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func cmdShow(ctx context.Context, w io.Writer, c *api.Client, entity, id string, jsonOut bool) error {
	fn, ok := showers[entity]
	if !ok {
		return fmt.Errorf("unknown entity %q (want one of %v)", entity, showNames())
	}
	rec, fields, err := fn(ctx, c, api.ID(id))
	if err != nil {
		return err
	}
	if jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", id)
	for _, f := range fields {
		fmt.Fprintf(tw, "%s:\t%s\n", f.label, oneLine(f.value))
	}
	return tw.Flush()
}

type outboxRow struct {
	MutationID string `json:"mutation_id"`
	Entity     string `json:"entity"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	Error      string `json:"error"`
	CreatedAt  string `json:"created_at"`
}

// cmdOutbox lists mutations the backend rejected.
func cmdOutbox(w io.Writer, db *store.DB, limit int, jsonOut bool) error {
	entries, err := db.FailedOutbox(limit)
	if err != nil {
		return err
	}
	rows := make([]outboxRow, len(entries))
	for i, e := range entries {
		rows[i] = outboxRow{e.MutationID, e.Entity, e.Method, e.Path, e.ErrorMessage, e.CreatedAt.Format(time.RFC3339)}
	}
	if jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No failed mutations.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tENTITY\tREQUEST\tERROR")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\n", r.MutationID, r.Entity, r.Method, r.Path, oneLine(r.Error))
	}
	return tw.Flush()
}
