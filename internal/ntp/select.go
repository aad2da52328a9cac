package ntp

// Election — выбор NTP сервера (primary → следующие по кругу). Один запрос за цикл:
// после неудачи следующий цикл идёт к следующему серверу, после успеха сервер сохраняется.
type Election struct {
	clients []*Client
	active  int
}

// NewElection создаёт выборщик; первый клиент — primary.
func NewElection(clients ...*Client) *Election {
	return &Election{clients: clients}
}

// Active возвращает текущий сервер; nil если серверов нет.
func (e *Election) Active() *Client {
	if len(e.clients) == 0 {
		return nil
	}
	return e.clients[e.active]
}

// Failed переключает на следующий сервер по кругу.
func (e *Election) Failed() {
	if len(e.clients) == 0 {
		return
	}
	e.active = (e.active + 1) % len(e.clients)
}

// Len возвращает число серверов.
func (e *Election) Len() int {
	return len(e.clients)
}
