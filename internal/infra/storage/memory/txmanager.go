package memory

import "context"

type txKey struct{}

// TxManager менеджер транзакций хранилища в памяти.
// Транзакции выполняются по одной; при ошибке или панике бронирования
// откатываются к снимку, сделанному в начале транзакции.
// Вложенные вызовы выполняются в уже открытой транзакции.
type TxManager struct {
	s *Store
}

// Do выполняет fn в транзакции
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// DoSerializable выполняет fn в транзакции. Транзакции уже сериализованы.
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// DoReadOnly выполняет fn в транзакции, видящей один снимок данных
func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	snap := m.s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			m.s.restore(snap)
			panic(p)
		}
		if err != nil {
			m.s.restore(snap)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, true))
}
