//go:build linux

package rtthread

import "golang.org/x/sys/unix"

// niceIncrement is the nice value raise asks for (a lower nice value
// means a higher scheduling priority). Setpriority sets this absolute
// value rather than adding it to the current one. Going below the
// current nice value needs CAP_SYS_NICE or a sufficient RLIMIT_NICE;
// without it Setpriority returns an error and the value is unchanged.
const niceIncrement = -11

func raise() error {
	return unix.Setpriority(unix.PRIO_PROCESS, 0, niceIncrement)
}
