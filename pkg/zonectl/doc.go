// Package zonectl provides a library API for managing Solaris zones.
//
// It wraps the internal zone, privilege and audit packages behind a small
// stable surface for programs that embed zone management instead of
// shelling out to the zonectl binary.
//
// # Consistency
//
// A Client holds no zone state between calls. List and Get read a fresh
// listing every time, and every state-guarded operation re-reads the
// zone's live state immediately before running its command. Nothing is
// locked: two processes booting the same zone may both pass the guard, in
// which case the second zoneadm invocation fails and is reported as an
// ExecutionError.
//
// # Usage
//
//	client, err := zonectl.Open(zonectl.DefaultConfigPath)
//	if err != nil {
//	    return err
//	}
//	z := client.Zone("web01")
//	if _, err := z.Create(zonectl.CreateOptions{Template: "SYSdefault"}); err != nil {
//	    return err
//	}
//	if _, err := z.Install(); err != nil {
//	    return err
//	}
//	_, err = z.Boot()
package zonectl
