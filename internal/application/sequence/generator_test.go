package sequence_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sedes-inventario/internal/application/sequence"
	"github.com/jhoicas/sedes-inventario/internal/domain"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
	"github.com/jhoicas/sedes-inventario/internal/domain/repository"
	"github.com/jhoicas/sedes-inventario/internal/infrastructure/memory"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "SAL-0000000042", sequence.Format("SAL", 42))
	p, ok := sequence.Prefix(entity.DocumentTypeWaste)
	require.True(t, ok)
	assert.Equal(t, "MER", p)
	_, ok = sequence.Prefix("INVOICE")
	assert.False(t, ok)
}

func TestNextNumber_ConcurrenteSinRepetidos(t *testing.T) {
	store := memory.NewStore()
	gen := sequence.NewGenerator()
	const workers = 50

	var wg sync.WaitGroup
	numbers := make(chan string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Run(context.Background(), func(repos repository.Repos) error {
				n, err := gen.NextNumber(context.Background(), repos.Sequences, entity.DocumentTypeDispatch)
				if err != nil {
					return err
				}
				numbers <- n
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	close(numbers)

	seen := map[string]bool{}
	for n := range numbers {
		assert.False(t, seen[n], "número repetido %s", n)
		seen[n] = true
	}
	assert.Len(t, seen, workers)
	assert.True(t, seen[sequence.Format("SAL", workers)])
}

func TestNextNumber_ContadorPorTipo(t *testing.T) {
	store := memory.NewStore()
	gen := sequence.NewGenerator()
	ctx := context.Background()
	seq := store.Repos().Sequences

	n, err := gen.NextNumber(ctx, seq, entity.DocumentTypeReceipt)
	require.NoError(t, err)
	assert.Equal(t, "ING-0000000001", n)
	n, err = gen.NextNumber(ctx, seq, entity.DocumentTypeRequisition)
	require.NoError(t, err)
	assert.Equal(t, "REQ-0000000001", n)

	_, err = gen.NextNumber(ctx, seq, "INVOICE")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAssignIfMissing_RespetaNumeroExistente(t *testing.T) {
	store := memory.NewStore()
	doc := &entity.Document{Type: entity.DocumentTypeDispatch, Number: "SAL-0000000007"}
	require.NoError(t, sequence.NewGenerator().AssignIfMissing(context.Background(), store.Repos().Sequences, doc))
	assert.Equal(t, "SAL-0000000007", doc.Number)
}
